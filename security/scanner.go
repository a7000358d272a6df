package security

import "regexp"

// Threat is a category of detected malicious input.
type Threat string

const (
	InstructionOverride Threat = "INSTRUCTION_OVERRIDE"
	SystemRoleHijack    Threat = "SYSTEM_ROLE_HIJACK"
	SQLCommentInjection Threat = "SQL_COMMENT_INJECTION"
	SQLInjection        Threat = "SQL_INJECTION"
	UnionInjection      Threat = "UNION_INJECTION"
	AuthBypass          Threat = "AUTH_BYPASS"
	CodeExecution       Threat = "CODE_EXECUTION"
	XSSInjection        Threat = "XSS_INJECTION"
	TemplateInjection   Threat = "TEMPLATE_INJECTION"
)

// pattern pairs a threat kind with the regexp that detects it.
type pattern struct {
	threat Threat
	re     *regexp.Regexp
}

// patterns is the single authoritative threat table. Every pattern is tested
// against the input; the scan result is the union of all matches, never just
// the first.
var patterns = []pattern{
	{InstructionOverride, regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+|any\s+)?(previous|prior|above|earlier)\s+(instructions?|prompts?|rules?)`)},
	{SystemRoleHijack, regexp.MustCompile(`(?i)(you\s+are\s+now|act\s+as\s+(a|an)\s|pretend\s+to\s+be|system\s*:|new\s+persona)`)},
	{SQLCommentInjection, regexp.MustCompile(`(--|/\*|\*/|#\s*$)`)},
	{SQLInjection, regexp.MustCompile(`(?i)(;\s*(drop|delete|truncate|insert|update|create|alter)\b|'\s*;\s*|\bdrop\s+table\b)`)},
	{UnionInjection, regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`)},
	{AuthBypass, regexp.MustCompile(`(?i)('\s*or\s+'?\d+'?\s*=\s*'?\d+|\bor\s+1\s*=\s*1\b|admin'\s*--)`)},
	{CodeExecution, regexp.MustCompile(`(?i)(\bexec(ute)?\s*\(|\bxp_cmdshell\b|\beval\s*\(|\bsystem\s*\(|\bos\.system\b)`)},
	{XSSInjection, regexp.MustCompile(`(?i)(<\s*script|javascript\s*:|\bon(error|load|click)\s*=)`)},
	{TemplateInjection, regexp.MustCompile(`(\{\{.+\}\}|\$\{.+\}|<%.+%>)`)},
}

// Scan tests text against every pattern in the threat table and returns the
// distinct kinds that matched, in table order. An empty result means the text
// is clean; any non-empty result must reject the request.
func Scan(text string) []Threat {
	var threats []Threat
	for _, p := range patterns {
		if p.re.MatchString(text) {
			threats = append(threats, p.threat)
		}
	}
	return threats
}
