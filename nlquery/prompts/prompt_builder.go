// Package prompts constructs the LLM prompts used for SQL generation, query
// explanation, and answer synthesis over the medical dataset.
package prompts

import "fmt"

// Builder handles the construction of prompts for the LLM.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// SQLSystem is the system instruction for SQL generation. The schema text
// is the only schema knowledge the model receives.
func (b *Builder) SQLSystem(schemaText string) string {
	return fmt.Sprintf(`You are a medical data SQL expert helping physicians query patient databases.

Database Schema:
%s

Important Context:
- This is medical/patient data for physicians
- Tables contain:
  * assessments (QoL, Anxiety, Depression, Behavioral scores)
  * medications (Med A-E dosages)
  * seizures (daily_total, daily_severe counts, seizure_type, medication_missed, called_911)
- Seizure types include: 'tonic-clonic', 'spasms', 'absence', or blank for no seizure
- medication_missed is Boolean (True/False or 1/0)
- called_911 is Boolean (True/False or 1/0)
- Always use proper SQL syntax for SQLite
- Only generate SELECT queries
- Be precise with column names
- Use appropriate aggregations and filters
- When asked about trends, use date ordering
- When asked about averages or statistics, use aggregate functions

Return ONLY valid SQL query, no explanations in the SQL itself.`, schemaText)
}

// SQLUser wraps the physician's question for SQL generation.
func (b *Builder) SQLUser(question string) string {
	return fmt.Sprintf(`Convert this natural language query to SQL:
"%s"

Generate a clean SQL query that answers this question.`, question)
}

// ExplanationSystem is the system instruction for explaining generated SQL.
func (b *Builder) ExplanationSystem() string {
	return `You are a helpful medical data assistant.
Explain SQL queries in simple terms that physicians can understand.`
}

// ExplanationUser pairs the question with its generated SQL.
func (b *Builder) ExplanationUser(question, sql string) string {
	return fmt.Sprintf(`The user asked: "%s"
The generated SQL query is:
%s

Provide a brief, clear explanation (2-3 sentences) of what this query does.`, question, sql)
}

// AnswerSystem is the system instruction for answer synthesis.
func (b *Builder) AnswerSystem() string {
	return `You are a medical data assistant helping physicians understand patient data.
Provide clear, concise answers based on the query results.
Use medical terminology appropriately.
Keep responses professional and focused on the data.`
}

// AnswerUser pairs the question with the rendered query results.
func (b *Builder) AnswerUser(question, resultText string) string {
	return fmt.Sprintf(`Question: %s

Query Results:
%s

Provide a clear, professional answer to the physician's question based on these results.`, question, resultText)
}
