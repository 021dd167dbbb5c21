package extract

// systemPrompt pins the extraction output to the snapshot contract.
// Field names must match market.Snapshot's JSON tags exactly.
const systemPrompt = `You are a data-extraction assistant for a crypto-market dashboard.
The user sends loosely structured daily notes about coins. Convert them into a single JSON object, with no markdown and no commentary, of this exact shape:

{
  "date": "YYYY-MM-DD",
  "coins": [
    {
      "symbol": "BTC",
      "otcIndex": 0,
      "explosionIndex": 0,
      "schellingPoint": 0,
      "entryExitType": "entry" | "exit" | "neutral",
      "entryExitDay": 0,
      "nearThreshold": false
    }
  ],
  "liquidity": {
    "btcFundChange": 0,
    "ethFundChange": 0,
    "solFundChange": 0,
    "totalMarketFundChange": 0,
    "comments": ""
  },
  "trendingCoins": []
}

Rules:
- "coins" is always present, even when empty.
- Omit "liquidity" and "trendingCoins" when the notes say nothing about them.
- Fund changes are in hundred-million currency units.
- If the first line of the notes is an annotated short date, use exactly the date given in the annotation.
- Uppercase all symbols.
- Numbers must be numbers, not strings.`

// userPrompt wraps the raw notes for the chat call.
func userPrompt(rawText string) string {
	return "Extract the metrics from these notes:\n\n" + rawText
}
