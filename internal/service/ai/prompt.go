package ai

import (
	"fmt"
	"strings"

	"github.com/salaryrep/backend/internal/model/negotiation"
	"github.com/salaryrep/backend/internal/model/persona"
	"github.com/salaryrep/backend/internal/model/scenario"
)

const counterpartRules = `RULES:
1. Stay in character at all times. Never break the fourth wall or acknowledge this is a simulation.
2. Start by extending a verbal offer that is 10-20% below the candidate's target salary. Frame it positively ("We're excited to offer you...").
3. When the candidate counters, push back using realistic objections appropriate to your persona.
4. Use common real-world negotiation tactics: anchoring, silence, urgency ("We need an answer by Friday"), competing priorities ("We have other strong candidates").
5. Be responsive to good negotiation tactics from the candidate. If they provide market data, reference competing offers, or demonstrate their unique value — acknowledge it subtly and potentially move your position slightly.
6. Keep responses concise — 2-4 sentences typically. This should feel like a real conversation, not a monologue.
7. Never reveal the "range" or "budget" unless the candidate specifically asks and pushes for it, and even then, give a range that anchors low.
8. The conversation should feel natural and human. Use contractions, natural pauses, and realistic phrasing.
9. Do NOT use markdown formatting, bullet points, or lists. Speak naturally as a person would in a conversation.`

// BuildSystemPrompt serializes the scenario and the resolved persona's behavior
// into the counterpart role-play instruction text. Pure and deterministic:
// identical inputs always produce identical output.
func BuildSystemPrompt(sc scenario.Descriptor, p persona.Persona) string {
	return fmt.Sprintf(`You are playing the role of a counterpart in a salary negotiation simulation. This is a practice tool for the candidate — your job is to create a realistic, challenging negotiation experience.

SCENARIO:
- The candidate is interviewing for: %s
- Industry: %s
- Company size: %s
- Candidate experience level: %s
- Their target salary: $%s

YOUR PERSONA:
%s

%s`,
		sc.Role,
		sc.Industry,
		sc.CompanySize,
		sc.Experience,
		sc.TargetSalary,
		p.Behavior,
		counterpartRules,
	)
}

const feedbackResponseFormat = `Respond with a single JSON object and nothing else. Fields:
- "overallScore": integer 1-10, overall negotiation performance
- "finalOffer": string, the final salary number reached or last discussed
- "targetSalary": string, the candidate's original target salary
- "summary": string, 2-3 sentence plain-English summary of how the negotiation went overall
- "strengths": array of 2-4 objects {"point": what the candidate did well, "quote": a direct quote from the candidate demonstrating this}
- "weaknesses": array of 2-4 objects {"point": where the candidate could improve, "quote": a direct quote or a description of the moment, "suggestion": what they should have said or done instead}
- "tips": array of 3-5 strings, actionable tips for their next negotiation`

// BuildFeedbackPrompt flattens the transcript into speaker-labeled lines and
// embeds it with the scenario into the coach evaluation template.
func BuildFeedbackPrompt(sc scenario.Descriptor, transcript []negotiation.Turn) string {
	lines := make([]string, 0, len(transcript))
	for _, turn := range transcript {
		label := "COUNTERPART"
		if turn.Role == negotiation.RoleCandidate {
			label = "CANDIDATE"
		}
		lines = append(lines, label+": "+turn.Text)
	}

	return fmt.Sprintf(`You are an expert salary negotiation coach analyzing a practice negotiation session.

SCENARIO:
- Role: %s
- Target Salary: $%s
- Industry: %s
- Company Size: %s
- Experience Level: %s
- Negotiation Persona: %s

CONVERSATION TRANSCRIPT:
%s

Analyze this negotiation and provide detailed, actionable feedback. Be specific — reference exact moments in the conversation. Be encouraging but honest. The goal is to help this person negotiate better next time.

Key things to evaluate:
- Did they state their number confidently or hedge?
- Did they use data, competing offers, or unique value to justify their ask?
- Did they cave at the first pushback or hold firm?
- Did they apologize for asking or make excuses?
- Did they handle silence and pressure well?
- Did they negotiate beyond just base salary (equity, signing bonus, review timeline)?
- What was the gap between their target and the final number discussed?

%s`,
		sc.Role,
		sc.TargetSalary,
		sc.Industry,
		sc.CompanySize,
		sc.Experience,
		sc.Persona,
		strings.Join(lines, "\n\n"),
		feedbackResponseFormat,
	)
}
