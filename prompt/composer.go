// Package prompt renders the SQL-generation prompt sent to the LLM
// collaborator and post-processes its raw completion into query text.
package prompt

import (
	"fmt"
	"strings"

	"github.com/harendratomar/SQLify/dataset"
	"github.com/harendratomar/SQLify/rag"
)

// maxSampleRows is how many sample rows the prompt embeds.
const maxSampleRows = 3

// rules are the fixed formatting instructions included in every prompt.
const rules = `Rules:
- Column names MUST be wrapped in backticks, e.g. ` + "`Country`" + `.
- Column names are case-sensitive; use them exactly as listed in the schema.
- The query MUST contain a FROM clause.
- Use only: SELECT, FROM, WHERE, ORDER BY, LIMIT and the aggregate
  functions SUM, COUNT, AVG, MAX, MIN.
- Respond with a single SQL query and nothing else.`

// examples are the fixed few-shot examples included in every prompt.
// Exactly three, always the same, so identical inputs render identical
// prompts.
const examples = `Examples:
Q: Which country has rank 1?
A: SELECT ` + "`Country`" + ` FROM data WHERE ` + "`Rank`" + ` = '1'

Q: What are the total sales?
A: SELECT SUM(` + "`Sales`" + `) AS total FROM data

Q: Show the top 3 products by price.
A: SELECT * FROM data ORDER BY ` + "`Price`" + ` DESC LIMIT 3`

// Compose renders the generation prompt. It is a pure function: identical
// inputs always produce byte-identical output, which enables caching and
// exact-match testing.
func Compose(tableName string, schema dataset.Schema, sampleRows []dataset.Row, relevant []rag.VectorStoreEntry, question string) string {
	var b strings.Builder

	b.WriteString("You convert natural-language questions into SQL queries for the table `")
	b.WriteString(tableName)
	b.WriteString("`.\n\n")

	b.WriteString("Schema:\n")
	for _, col := range schema {
		fmt.Fprintf(&b, "- `%s` (%s)\n", col.Name, col.Type)
	}

	if len(sampleRows) > maxSampleRows {
		sampleRows = sampleRows[:maxSampleRows]
	}
	if len(sampleRows) > 0 {
		b.WriteString("\nSample rows:\n")
		for _, row := range sampleRows {
			b.WriteString("- ")
			for i, col := range schema {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%s=%v", col.Name, row[col.Name])
			}
			b.WriteString("\n")
		}
	}

	if len(relevant) > 0 {
		b.WriteString("\nRelevant context:\n")
		for _, entry := range relevant {
			b.WriteString("- ")
			b.WriteString(entry.Context)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(rules)
	b.WriteString("\n\n")
	b.WriteString(examples)
	b.WriteString("\n\nQ: ")
	b.WriteString(question)
	b.WriteString("\nA:")

	return b.String()
}

// ExtractSQL turns a raw LLM completion into canonical query text.
//
// Markdown code-fence delimiters are stripped first. If the completion spans
// multiple lines, the first line whose trimmed, upper-cased form starts with
// SELECT wins; otherwise the whole trimmed completion is returned as-is.
func ExtractSQL(completion string) string {
	cleaned := strings.ReplaceAll(completion, "```sql", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	for _, line := range strings.Split(cleaned, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
			return trimmed
		}
	}

	return cleaned
}
