package service

import (
	"fmt"
	"strings"
)

const sentimentPrompt = `You are a sentiment analysis expert. Your task is to analyze the following text and classify its overall sentiment.

Instructions:
1. Read the provided text carefully.
2. Identify the dominant emotional tone.
3. Classify the sentiment as either positive, negative, or neutral.
4. **Provide only the sentiment classification (positive, negative, or neutral) without any additional explanation or analysis.**

Text: %s

Sentiment: `

const entityPrompt = `You are an expert in Named Entity Recognition. Extract and categorize all named entities from the following text. Return the output in a clearly structured, easy-to-parse format grouped by entity types.

Instructions:
1. Identify all named entities in the input text.
2. Group them under the following types where applicable: Persons, Locations, Dates, Organizations, Miscellaneous.
3. Format each entity type as a header (e.g., Persons:).
4. List each entity on a new line under its respective type, enclosed in double quotation marks (").
5. If a category has no entities, exclude it entirely from the output.
6. Avoid extra commentary or explanations. Return only the structured result.

Example Output Format:
Persons:
"Narendra Modi"
"Joe Biden"

Locations:
"India"
"USA"

Text: %s

Entities:
`

const codePrompt = `You are a highly skilled {language} code generator. Your task is to produce clean, efficient, and directly executable {language} code based on the user's request.

Instructions:
1. Understand the user's request precisely.
2. Generate the complete {language} code to fulfill the request.
3. Provide **only** the {language} code. Do not include any explanations, comments, docstrings, or example usage.
4. The code should be self-contained and ready to run.

User Request: {request}
`

const answerPrompt = `You are a helpful and informative chatbot designed to answer user questions to the best of your ability.

Instructions:

1. Read the user's question carefully.
2. Provide a clear, concise, and accurate answer.
3. If you don't know the answer, respond with "I'm sorry, I don't have the answer to that question."
4. Maintain a friendly and helpful tone.

User Question: %s

Chatbot Response:
`

const summaryPrompt = `You are an advanced AI assistant skilled in document summarization. Your task is to provide a concise, yet informative summary of the provided content.

Context from knowledge retrieval system:
%s

Based on the above retrieved context, create a summary that:
- Highlights the main points and key information
- Is clear, structured, and well-organized
- Is easy to read and understand
- Integrates the most relevant information from the retrieved context
- Maintains factual accuracy according to the source material`

const documentAnswerPrompt = "Answer the following question based on the provided context:\n\n%s\n\nQuestion: %s"

func buildSentimentPrompt(text string) string {
	return fmt.Sprintf(sentimentPrompt, text)
}

func buildEntityPrompt(text string) string {
	return fmt.Sprintf(entityPrompt, text)
}

// buildCodePrompt fills named placeholders; the language appears four times.
func buildCodePrompt(language, request string) string {
	return strings.NewReplacer("{language}", language, "{request}", request).Replace(codePrompt)
}

func buildAnswerPrompt(question string) string {
	return fmt.Sprintf(answerPrompt, question)
}

func buildSummaryPrompt(contextText string) string {
	return fmt.Sprintf(summaryPrompt, contextText)
}

func buildDocumentAnswerPrompt(contextText, question string) string {
	return fmt.Sprintf(documentAnswerPrompt, contextText, question)
}
