package redact

import (
	"regexp"
)

// Placeholder replaces every detected secret.
const Placeholder = "[REDACTED]"

type rule struct {
	kind string
	re   *regexp.Regexp
}

// rules are regex heuristics for common secret shapes. Order matters: the
// more specific provider keys run before the generic ones.
var rules = []rule{
	{"private-key", regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`)},
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret-key", regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`)},
	{"api-key", regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"bearer", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"anthropic-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai-key", regexp.MustCompile(`sk-(proj-)?[A-Za-z0-9_-]{20,}`)},
	{"connection-string", regexp.MustCompile(`(?i)\b(postgres(ql)?|mysql|mongodb(\+srv)?|redis|amqp)://[^:/\s]+:[^@\s]+@`)},
	{"assignment", regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`)},
	{"hex-assignment", regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`)},
}

// Report summarizes one redaction pass.
type Report struct {
	Count int
	// Kinds lists each rule that matched at least once, in rule order.
	Kinds []string
}

// Secrets replaces detected secrets in text with [Placeholder].
func Secrets(text string) (string, Report) {
	var rep Report
	for _, r := range rules {
		n := 0
		text = r.re.ReplaceAllStringFunc(text, func(string) string {
			n++
			return Placeholder
		})
		if n > 0 {
			rep.Count += n
			rep.Kinds = append(rep.Kinds, r.kind)
		}
	}
	return text, rep
}
