package llm

// Prompt templates. Callers fill the %s slots with JSON-encoded data.

const coverLetterSectionPrompt = `You are an expert in writing cover letters.
Candidate data:
%s

Content type: %s

User prompt: %s

Important instructions:
0. Do not ever leave your comments in the generated text
1. Use placeholders in the format {{placeholder_key}} for places where job description data will be inserted (there have to be double brackets)
2. The text should be:
- Professional and formal
- Match the candidate's data
- Consider the user prompt
- Be unique and personalized
- Avoid cliches and generic phrases
3. Generate the text in the same language as the resume content
4. For each content type:
- Introduction:
    1. Start with an appropriate greeting and briefly introduce yourself
    2. Maximum: 1 paragraph
- Body Part 1:
    1. Highlight your skills, experience, and achievements
    2. Do not contain introduction manner
    3. Do not use the same words as in the introduction
    4. Bullet points preferred
    5. Maximum: 2 paragraphs
- Body Part 2:
    1. Explain your interest in the company and how you match their needs
    2. Do not contain introduction manner
    3. Do not use the same words as in the introduction
    4. Maximum: 1 paragraph
- Conclusion:
    1. Summarize your fit and express your desire to discuss further
    2. Maximum: 1 paragraph
5. Check the content type given and check if it matches the requirements above and check if every placeholder is wrapped with double brackets
6. Return ONLY the generated text without any additional comments, explanations, or notes`

const renderCoverLetterPrompt = `You are an expert in analyzing job descriptions and writing cover letters.
Job Description:
%s

Cover Letter Content:
%s

Important instructions:
1. Analyze the job description and extract key requirements, skills, and company information
2. For each section of the cover letter content:
   - Find all placeholders in the format {{placeholder_key}}
   - Replace them with relevant information from the job description
   - Ensure the text flows naturally and maintains professional tone
3. Return ONLY the rendered text with filled placeholders
4. Do not add any comments or explanations
5. Preserve the original structure and formatting of the content
6. Make sure all placeholders are replaced with meaningful content`

const resumeScoringPrompt = `Please analyze this resume data and provide a detailed scoring based on the following exact criteria:

1. Presence of key sections (30%%):
- Check if resume contains all required sections: Summary, Experience, Skills, Education
- Each missing section reduces the score proportionally
- Maximum score: 30%%

2. Work experience quality using STAR method (40%%):
- Evaluate how well each work experience is described using Situation, Task, Action, Result
- Check for specific achievements and measurable results
- Maximum score: 40%%

3. Education and certifications relevance (10%%):
- Evaluate relevance of education to the target position
- Check for additional relevant certifications and courses
- Maximum score: 10%%

4. Timeline consistency (10%%):
- Check for any date contradictions in work history
- Identify employment gaps longer than 2 months
- Maximum score: 10%%

5. Language and grammar (10%%):
- Check for grammatical errors
- Evaluate overall language quality, conciseness, and formal tone
- Maximum score: 10%%

Resume Data:
%s

Please provide your analysis in the following JSON format:
{
    "scoring": {
        "total_score": <total_score>,
        "sections_score": <score_0_to_30>,
        "experience_score": <score_0_to_40>,
        "education_score": <score_0_to_10>,
        "timeline_score": <score_0_to_10>,
        "language_score": <score_0_to_10>
    },
    "feedback": {
        "sections": "<detailed_feedback_about_sections>",
        "experience": "<detailed_feedback_about_experience>",
        "education": "<detailed_feedback_about_education>",
        "timeline": "<detailed_feedback_about_timeline>",
        "language": "<detailed_feedback_about_language>"
    }
}

Important:
- Each score must be within its specified range
- Total score should be the sum of all individual scores
- Provide specific, actionable feedback for each category`

const jobQueryKeywordsPrompt = `Based on the following candidate data, generate job search keywords.
For each category, provide exactly 2 words or phrases that would be most relevant for job search.

Categories:
- job_titles: Desired job titles
- required_skills: Key skills to look for
- work_arrangements: Preferred work arrangements
- positions: Desired positions/levels
- exclude_words: Words to exclude from search

Candidate data:
%s

Return the response in JSON format with the following structure:
{
    "job_titles": ["word1", "word2"],
    "required_skills": ["word1", "word2"],
    "work_arrangements": ["word1", "word2"],
    "positions": ["word1", "word2"],
    "exclude_words": ["word1", "word2"]
}`

// CandidateExtractionPrompt instructs the model to pull structured candidate
// data out of raw resume content. Used for both document and plain-text
// uploads.
const CandidateExtractionPrompt = `Extract structured candidate data from this resume.
Return ONLY a JSON object with the following structure:
{
    "full_name": "<candidate name>",
    "email": "<email or empty string>",
    "phone": "<phone or empty string>",
    "summary": "<professional summary>",
    "skills": ["skill1", "skill2"],
    "experience": [
        {
            "company": "<company>",
            "position": "<position>",
            "start_date": "<date>",
            "end_date": "<date or 'present'>",
            "description": "<what the candidate did>"
        }
    ],
    "education": [
        {
            "institution": "<institution>",
            "degree": "<degree>",
            "start_date": "<date>",
            "end_date": "<date>"
        }
    ],
    "languages": ["language1"],
    "certifications": ["certification1"]
}
Do not add any comments or explanations.`
