package chat

import (
	"fmt"
	"strings"
)

// The model has no built-in topic guard, so every prompt that reaches it
// carries its policy inline. Raw user text is never forwarded unwrapped.
const (
	// promptHealthOnly primes a fresh session to stay on health topics.
	promptHealthOnly = "Ensure that the conversation is health related only and reject it otherwise, by stating that only health related concerns are entertained!"

	// promptSummarize asks a live session to collapse itself into short
	// keyword notes sufficient to resume the conversation later.
	promptSummarize = "Summarise the conversation and provide the response in as short as possible in keywords only so as to continue the chat later (to maintain context)."

	// promptIntakeOpening primes a short-lived questionnaire session.
	promptIntakeOpening = "This is a questionnaire for understanding the user's health status. Questions will be provided along with their answers in the next requests. Your task is to remember them and return a response when required."

	// promptIntakeClosing asks for the final questionnaire summary.
	promptIntakeClosing = "All questions sent! Now create the contextual summary for this user to be used later (keep it short)."
)

// FailedReply is the user-visible fallback when the model is unreachable
// on the live message path.
const FailedReply = "Failed!"

// wrapUserMessage wraps one chat turn with the casual/health-only policy.
func wrapUserMessage(text string) string {
	return fmt.Sprintf("The user asked: %s. Answer this in a casual chat format. Refuse if not health related; keep the response short and courteous.", text)
}

// renderTurn renders one complete history turn as a single line. Turns
// missing either side contribute nothing.
func renderTurn(message, reply string) string {
	if message == "" || reply == "" {
		return ""
	}
	return fmt.Sprintf("User asked: %s, AI answered: %s", message, reply)
}

// primingPrompt composes the instruction that opens a session: the policy
// line, plus the history clause only when there is history to reference.
func primingPrompt(historyLines []string) string {
	prompt := promptHealthOnly + "."
	if len(historyLines) > 0 {
		prompt += fmt.Sprintf(" Here is the conversation history: %s. Take its reference to address the user's queries.", strings.Join(historyLines, " "))
	}
	return prompt
}

// mergePrompt asks for a single short reconciliation of the fresh session
// summary with the previously stored one.
func mergePrompt(fresh, prior string) string {
	return fmt.Sprintf("Make sense of these two texts: 1:%s, 2:%s. And keep the response as short as possible (might as well keep them as keywords, just make sure it is understandable for future reference).", fresh, prior)
}

// intakePairPrompt renders one questionnaire pair as a session turn.
func intakePairPrompt(question, answer string) string {
	return fmt.Sprintf("question is: %s and answer is: %s", question, answer)
}
