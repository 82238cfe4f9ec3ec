package constant

const (
	DocumentTypeClassifyPrompt = `
You are a document classifier for study material.
Classify the following document sample into exactly one category:

- CONTAINS_QUESTIONS: the document is mostly ready-made exam questions (numbered questions, answer options, answer keys).
- STUDY_NOTES: the document is prose study material (explanations, definitions, lecture notes) without ready-made questions.
- MIXED: the document contains both prose material and ready-made questions.

Document sample:
---
%s
---

Respond with ONLY the category name, nothing else.
`

	ExtractQuestionsPrompt = `
Extract every multiple-choice question that already exists in the following study material.
Preserve the original wording of questions and options exactly. Do not invent new questions.

Material:
---
%s
---

Output a JSON array. Each element:
{"question": "...", "options": ["...", "...", "...", "..."], "correct_index": 0, "explanation": "...", "difficulty": "easy|medium|hard", "topic": "..."}

Every question must have exactly 4 options. If the source gives fewer, add plausible distractors and note that in the explanation.
Output ONLY the JSON array.
`

	GenerateQuestionsPrompt = `
Create %d multiple-choice questions from the following study material.
Mix difficulties: some easy recall questions, some medium application questions, some hard analysis questions.

Material:
---
%s
---

Output a JSON array. Each element:
{"question": "...", "options": ["...", "...", "...", "..."], "correct_index": 0, "explanation": "...", "difficulty": "easy|medium|hard", "topic": "..."}

Every question must have exactly 4 options and exactly one correct answer.
Output ONLY the JSON array.
`

	MnemonicsPrompt = `
Create %d memorable mnemonics for the hardest-to-remember facts in the following study material.
Use vivid, locally familiar names, places and references so they stick. Keep each mnemonic short.

Material:
---
%s
---

Output a JSON array. Each element:
{"topic": "...", "mnemonic": "...", "explanation": "...", "key_terms": ["...", "..."]}

Output ONLY the JSON array.
`

	CheatSheetPointsPrompt = `
Distill the following study material into %d to %d cheat-sheet key points.
Each point is one self-contained sentence a student can revise from. Start each point with its concept name followed by a period.

Material:
---
%s
---

Output a JSON array of strings. Output ONLY the JSON array.
`

	KeyConceptsPrompt = `
List the %d to %d most important concepts or terms in the following study material.

Material:
---
%s
---

Output a JSON array of strings (concept names only). Output ONLY the JSON array.
`

	// StrictArrayRetrySuffix is appended on the single retry after an
	// unparsable model response.
	StrictArrayRetrySuffix = "\n\nIMPORTANT: Return ONLY the JSON array. No markdown, no commentary, no code fences."
)
