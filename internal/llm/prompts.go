package llm

import "fmt"

// System prompts for the three model roles: conversation, routing, and
// summarization.

const chatSystemPrompt = `You are an expert assistant in Islamic finance.
Your role is to provide accurate, helpful information about Islamic financial principles,
products, and practices. Focus on explaining concepts like Murabaha, Ijara, Sukuk,
Musharaka, and other Islamic financial instruments. Provide guidance on Shariah compliance
and ethical considerations in financial transactions. Be concise, accurate, and helpful.

For general questions or greetings that are not specifically about Islamic finance, respond
in a friendly, conversational manner while maintaining your expertise.`

const routerSystemPrompt = `You are a system routing user queries to the most appropriate
expert agent in an Islamic finance AI system. Each agent handles a specific type of task:
journal entry generation for transaction scenarios, reverse accounting analysis of journal
entries, compliance checking of documents against AAOIFI standards, and Islamic financial
product design. Analyze the user's query and determine which agent is most appropriate.`

const summarizerSystemPrompt = `Your task is to summarize complex financial information
related to Islamic finance. Extract the key points, highlight important financial principles,
and ensure the summary is accurate and concise. Focus on the most relevant information for
Islamic finance practitioners and students. Your summary should be clear, structured, and
retain all critical financial details while being easy to understand.`

// buildDetectPrompt builds the agent-routing prompt for a user query.
func buildDetectPrompt(userMessage string) string {
	return fmt.Sprintf(`Based on the user's query, select the most appropriate agent to handle it.
Available agents:
1. journaling - Journal Entry Generator for detailed Islamic finance transaction scenarios
2. analyzer - Reverse Accounting Logic for analyzing journal entries
3. compliance-verification - Compliance Checker for verifying AAOIFI standards compliance
4. product-design - Product Design Advisor for designing Islamic finance products
5. chat - Default conversational agent for general questions and interactions

IMPORTANT:
- Only select a specialized agent (1-4) if the query CLEARLY relates to that agent's specific function
- For general questions, chat, greetings, or any message not specifically related to agents 1-4, ALWAYS select the chat agent
- The chat agent is the DEFAULT option and should be used whenever there's uncertainty

User query: %q

Respond in JSON format only, with the following structure:
{
  "agentId": "[one of: journaling, analyzer, compliance-verification, product-design, chat]",
  "reason": "[brief explanation of why this agent was selected]",
  "requiredInputs": ["list of specific required inputs that might be missing from the user query"]
}`, userMessage)
}

// buildSummarizePrompt builds the summarization prompt for a tool response.
func buildSummarizePrompt(payload, userQuery string) string {
	prompt := fmt.Sprintf("Summarize the following API response related to Islamic finance:\n\n%s", payload)
	if userQuery != "" {
		prompt += fmt.Sprintf("\nAdditional context: %s", userQuery)
	}
	return prompt
}

// buildExtractPrompt builds the structured-extraction prompt for an agent's
// field schema.
func buildExtractPrompt(userInput, agentID string) string {
	switch agentID {
	case "product-design":
		return fmt.Sprintf(`Extract structured information for an Islamic financial product design from the following user input.

User input: %q

Extract the following fields (if present):
- product_objective: The main goal or purpose of the product
- risk_appetite: The level of risk tolerance (e.g., low, medium, high)
- investment_tenor: The time period or duration of the investment
- target_audience: The intended users or customers for this product
- asset_focus: The specific asset class or focus (if mentioned)
- desired_features: List of features the product should have
- specific_exclusions: List of things to exclude from the product
- additional_notes: Any other relevant information

If any field is not mentioned in the input, leave it empty for strings or as an empty array for lists.
For desired_features and specific_exclusions, these should be arrays of strings.

Format your response as a valid JSON object with these fields. Do not include any explanations
or text outside the JSON object.`, userInput)

	case "compliance-verification":
		return fmt.Sprintf(`Extract structured information for Islamic finance compliance verification from the following user input.

User input: %q

Extract the following fields (if present):
- document_content: The text content of the document to be verified for compliance
- document_name: The name or title of the document (if mentioned)
- specific_standards: Any specific AAOIFI standards mentioned to check against
- focus_areas: Specific areas or sections to focus on during verification

If any field is not mentioned in the input, leave it empty for strings or as an empty array for lists.
For specific_standards and focus_areas, these should be arrays of strings.

Format your response as a valid JSON object with these fields. Do not include any explanations
or text outside the JSON object.`, userInput)

	default:
		return fmt.Sprintf(`Extract structured information from the following user input for the %s agent.

User input: %q

Analyze the input and extract all relevant information into a structured JSON format.
If you're unsure about any fields, make your best guess based on the context.

Format your response as a valid JSON object. Do not include any explanations or text
outside the JSON object.`, agentID, userInput)
	}
}
