package engine

import "fmt"

// LLM prompt templates: data only, no logic.

// topicPrompt asks for a flat JSON-compatible array of searchable topics.
// Args: syllabus, subject.
const topicPrompt = `This is my syllabus or module: "%s" for the subject "%s".
Analyze it and return only a pure JavaScript array with topics and subtopics as youtube search prompt with the subject name.
MUST INCLUDE:
- Some subtopics or key topics
- Topics must be a youtube searchable query
DO NOT INCLUDE:
- The words "topic" or "subtopic"
- Any explanations or extra text
- Code block formatting
- topics must not repeat
Output format must be exactly like this example:
["Data communication", "Networks", "OSI model"]
Return only the raw array as a plain string without any escape characters.`

// notePrompt asks for a single plain paragraph about one topic.
// Args: topic.
const notePrompt = `Generate concise notes for "%s" just one paragraph no headlines needed`

// TopicPrompt renders the topic-extraction prompt.
func TopicPrompt(syllabus, subject string) string {
	return fmt.Sprintf(topicPrompt, syllabus, subject)
}

// NotePrompt renders the per-topic note prompt.
func NotePrompt(topic string) string {
	return fmt.Sprintf(notePrompt, topic)
}

// VideoQueryFor is the video-search query used for a topic.
func VideoQueryFor(topic string) string {
	return topic + " tutorial explanation"
}
