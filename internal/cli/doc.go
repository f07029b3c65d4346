// Package cli wires together the Cobra root command for the codewalk binary.
//
// It binds flags, loads configuration, checks for the API credential, and
// runs the interactive review session over the walked files, returning
// deterministic exit codes: 0 on success or user stop, 1 when the
// credential is missing, 2 for usage errors, 3 when the model endpoint
// rejects the credential, and 4 for any other runtime failure.
package cli
