package constant

// Prompts for the assistant's LLM calls. All of them demand strict JSON or
// plain text with no meta-talk; the callers extract and validate.

const ClassifierPrompt = `You are a classifier for a personal second brain.

Classify the user message into exactly one bucket:
- people (contacts, relationships, info about specific people - names, facts, observations, cues, anything about a person)
- ideas (product ideas, things to build, concepts to explore)
- interviews (job opportunities, leads, applications, interview prep)
- things (bills, appointments, errands, daily tasks)
- linkedin (content ideas for LinkedIn posts)

Return JSON ONLY. No markdown. No extra text.

{
  "bucket": "people|ideas|interviews|things|linkedin",
  "confidence": 0.0-1.0,
  "fields": {}
}

The "fields" object depends on the bucket:

For "people":
{"name": "person's name (REQUIRED - extract from message)", "context": "who they are/how you know them", "follow_ups": "any action item mentioned, or empty"}

For "ideas":
{"idea": "short title", "one_liner": "one sentence description", "notes": "any extra details"}

For "interviews":
{"company": "company name", "role": "job role if mentioned", "status": "Lead|Applied|Scheduled|Completed", "next_step": "what to do next", "date": "date if mentioned or empty"}

For "things":
{"task": "short title", "status": "Open", "due": "date if mentioned or empty", "next_action": "concrete next step"}

For "linkedin":
{"idea": "post topic or hook", "notes": "the full story or details", "status": "Draft"}

IMPORTANT RULES:
1. If message mentions a person's name + any info about them -> ALWAYS "people"
2. If message contains "draft" -> ALWAYS "linkedin"
3. "call someone", "follow up with someone" -> "people" (it's about the person)
4. "pay bill", "buy groceries", "schedule appointment" -> "things"
5. confidence 0.9+ = very sure, 0.7-0.89 = likely, 0.6-0.69 = weak, <0.6 = uncertain

User message:
`

// ExtractFieldsPromptTemplate asks for the fields of one specific bucket.
// Args: bucket name, JSON schema example, message.
const ExtractFieldsPromptTemplate = `Extract fields from this message for the "%s" category.

Return JSON ONLY:
%s

Message: %s`

const DigestPrompt = `Generate a daily digest. Be extremely concise. No fluff.

Rules:
- Max 3 bullet points
- Each bullet = one specific action (verb + what)
- Include company name or person name if relevant
- No greetings, no sign-offs

Example format:
• Follow up with Stripe recruiter about PM role
• Pay electricity bill (due Friday)
• Call mom re: birthday plans

Data:
`

// TopItemsPromptTemplate formats up to five items of a table into bullets.
// Args: table name, JSON data.
const TopItemsPromptTemplate = `Format these %s items as a short bullet list. Max 5 items.
Each bullet should be one line, actionable if possible.
No headers, no fluff.

Data:
%s`

// PersonAnswerPromptTemplate answers a question from one person's saved data
// only. Args: question, person data.
const PersonAnswerPromptTemplate = `Answer the question using ONLY this person's saved data. Be brief and direct.
If the data does not contain the answer, say you have nothing saved about that.

Question: %s

Person data:
%s`

const WeeklyReviewPrompt = `Write a weekly review under 250 words.

Include:
1) What moved forward this week (2-4 bullets)
2) What is stuck and why (2 bullets)
3) Top 3 priorities for next week (3 bullets)
4) One pattern you notice (1 sentence)

Use only the data provided. Be specific.

Data:
`

const MisclassificationPrompt = `Analyze these classification corrections and identify patterns.

For each pattern, explain:
1. What type of message was misclassified
2. What it was classified as vs what it should have been
3. How to improve the classification

Be concise. Max 100 words.

Corrections data:
`
