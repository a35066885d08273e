package pipeline

import "github.com/tmc/langchaingo/prompts"

// Prompt templates for the completion collaborator. The model is stateless
// per call, so every template carries all the context its stage needs.

var summaryPrompt = prompts.NewPromptTemplate(
	"Summarize the following text:\n\n{{.text}}",
	[]string{"text"},
)

var combinePrompt = prompts.NewPromptTemplate(
	"Combine these summaries into a coherent overall summary:\n\n{{.summaries}}",
	[]string{"summaries"},
)

var faqPrompt = prompts.NewPromptTemplate(
	`Generate a list of frequently asked questions (FAQs) for the following section of a document:

Section Title: {{.section_title}}
Content: {{.text}}

Generate 5-7 relevant FAQs that would help users understand this section better. Format each FAQ as:
Q: [Question]
A: [Answer]

Focus on:
1. Key requirements and specifications
2. Common questions about the content
3. Important technical details
4. Potential implementation challenges
5. Clarifications of complex terms

Provide clear, concise answers based on the content.`,
	[]string{"section_title", "text"},
)

var grammarPrompt = prompts.NewPromptTemplate(
	`Review the following query for spelling and grammar errors:
Query: {{.query}}

Provide the corrected query with proper spelling and grammar.`,
	[]string{"query"},
)

var decompositionPrompt = prompts.NewPromptTemplate(
	`Decompose the following query into simpler sub-queries:
Query: {{.query}}

Break down complex concepts and provide a list of simpler queries that together cover the original question.`,
	[]string{"query"},
)

var hypothesisPrompt = prompts.NewPromptTemplate(
	`Based on the following query and its sub-queries, identify key hypotheses:
Original Query: {{.query}}
Sub-queries: {{.sub_queries}}

List the main hypotheses that need to be tested or verified.`,
	[]string{"query", "sub_queries"},
)

var improvementPrompt = prompts.NewPromptTemplate(
	`Improve the following query based on its decomposition and hypotheses:
Original Query: {{.query}}
Sub-queries: {{.sub_queries}}
Hypotheses: {{.hypotheses}}

Provide an improved version of the query that is more precise and comprehensive.`,
	[]string{"query", "sub_queries", "hypotheses"},
)

var chatPrompt = prompts.NewPromptTemplate(
	`You are a helpful assistant answering questions about a document. Use the following context and chat history to answer the current question:

Context:
{{.context}}

Chat History:
{{.chat_history}}

Current Question: {{.current_question}}

Instructions:
1. First, check if the answer can be found in the FAQs
2. If not, look for relevant information in the document summary
3. If still not found, search through the document content
4. If the answer cannot be found in any of these sources, say so explicitly
5. Always cite the source of your information (FAQs, Summary, or Document Content)

Provide a clear, accurate answer based on the document. If you find multiple relevant pieces of information, combine them into a comprehensive response.`,
	[]string{"context", "chat_history", "current_question"},
)
