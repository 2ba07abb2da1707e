// Package extractor implements the LLM-backed signal extraction services.
// Both providers share one prompt and one response decoder; only the API
// plumbing differs.
package extractor

import "fmt"

// systemPrompt frames the extraction task. The advisor's posts mix prose,
// quantitative indicators and per-strategy suggestions; the model's only job
// is to transcribe them into the fixed schema.
const systemPrompt = `You are a professional investment signal analyst. You read posts from a
veteran investment advisor and extract their key claims into structured JSON.

The advisor's style:
1. Analysis is anchored on quantitative indicators, mainly gold volatility
   and the gold/copper ratio.
2. The market is always placed in one of three cycles: a buy phase, a hold
   phase, or a reduce phase.
3. Operation suggestions come in up to three strategy profiles: aggressive,
   steady, and conservative.
4. Posts cover broad-index ETFs, gold, copper and similar targets.

Extract only what the post actually says. Never invent values.`

// promptTemplate carries the response schema. Enum fields must use the exact
// tokens listed; the action field stays verbatim from the post because the
// downstream keyword matcher works on the original wording.
const promptTemplate = `Analyze the following advisor post and extract the key information.

Post content:
%s

Respond with a single JSON object in exactly this shape:
{
    "date": "publication date as YYYY-MM-DD, or null if not stated",
    "market_cycle": "one of: buy_phase | hold_phase | reduce_phase | unclear",
    "trend_judgment": "one of: bullish | bearish | choppy | unclear",
    "risk_level": "one of: low | medium | high | unclear",
    "expected_space": "expected up/down room if mentioned, else null",
    "confidence": "signal strength from wording and tone, one of: strong | medium | weak",
    "sentiment": "overall mood, one of: optimistic | pessimistic | neutral",
    "key_indicators": {
        "gold_volatility": "numeric value if mentioned, else null",
        "gold_copper_ratio": "numeric value if mentioned, else null"
    },
    "operation_suggestions": [
        {
            "strategy": "one of: aggressive | steady | conservative",
            "action": "the suggested operation, verbatim from the post",
            "position": "position sizing if mentioned, else null",
            "timing": "timing advice if mentioned, else null"
        }
    ],
    "mentioned_targets": ["ticker codes or names mentioned"],
    "time_window": "time window if mentioned (e.g. 'next 1-2 weeks'), else null",
    "key_points": ["core takeaways, one short sentence each"]
}

Rules:
1. Use "unclear"/"neutral"/null for anything the post does not state.
2. Extract every numeric value you can find.
3. There may be several operation suggestions, one per strategy.
4. Keep each key point under 30 characters.
5. Keep the action text in the post's original language.
6. Output the JSON object only, no surrounding prose.`

func buildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
