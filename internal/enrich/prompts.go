package enrich

const enrichPrompt = `Role: Medical Data Summarizer
Task: Generate a professional bio and education summary based ONLY on the provided verified data blocks.
Constraint: Do NOT assess credibility. Do NOT invent missing facts. Keep it concise.

Input:
Name: %s
Specialties: %s
Location: %s

Output JSON:
{
  "bio": "2 sentence professional bio...",
  "education_summary": "Inferred likely medical background..."
}`
