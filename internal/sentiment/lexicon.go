package sentiment

// Embedded scoring lexicons. The polarity table drives the general-purpose
// lexical method, the valence table the informal-text method, and the
// keyword sets the finance-specific method. Tables are intentionally
// compact; extending them does not change any scoring contract.

type polarityEntry struct {
	polarity     float64 // [-1, 1]
	subjectivity float64 // [0, 1]
}

var polarityLexicon = map[string]polarityEntry{
	"good":          {0.7, 0.60},
	"great":         {0.8, 0.75},
	"excellent":     {0.9, 0.80},
	"outstanding":   {0.85, 0.80},
	"impressive":    {0.7, 0.75},
	"positive":      {0.5, 0.50},
	"favorable":     {0.6, 0.55},
	"promising":     {0.6, 0.65},
	"optimistic":    {0.6, 0.70},
	"healthy":       {0.5, 0.50},
	"successful":    {0.7, 0.55},
	"remarkable":    {0.7, 0.75},
	"encouraging":   {0.6, 0.65},
	"confident":     {0.5, 0.60},
	"profitable":    {0.6, 0.40},
	"better":        {0.5, 0.50},
	"best":          {0.9, 0.70},
	"improved":      {0.5, 0.45},
	"improving":     {0.5, 0.50},
	"stable":        {0.3, 0.40},
	"resilient":     {0.5, 0.55},
	"attractive":    {0.5, 0.65},
	"upbeat":        {0.6, 0.70},

	"bad":           {-0.7, 0.65},
	"terrible":      {-1.0, 0.90},
	"awful":         {-0.9, 0.85},
	"horrible":      {-0.9, 0.85},
	"negative":      {-0.5, 0.50},
	"unfavorable":   {-0.6, 0.55},
	"pessimistic":   {-0.6, 0.70},
	"worrying":      {-0.6, 0.70},
	"worrisome":     {-0.6, 0.70},
	"troubling":     {-0.6, 0.70},
	"disappointing": {-0.65, 0.75},
	"dismal":        {-0.8, 0.75},
	"bleak":         {-0.7, 0.70},
	"grim":          {-0.7, 0.70},
	"worse":         {-0.5, 0.50},
	"worst":         {-0.9, 0.70},
	"unstable":      {-0.4, 0.45},
	"volatile":      {-0.3, 0.40},
	"fragile":       {-0.4, 0.50},
	"sluggish":      {-0.5, 0.55},
	"costly":        {-0.4, 0.45},
	"painful":       {-0.6, 0.70},
	"alarming":      {-0.7, 0.75},
}

// valenceLexicon uses raw intensities on the conventional [-4, 4] scale;
// the compound score normalizes the sum into [-1, 1].
var valenceLexicon = map[string]float64{
	"love":       3.2,
	"awesome":    3.1,
	"amazing":    2.8,
	"fantastic":  2.6,
	"great":      3.1,
	"good":       1.9,
	"nice":       1.8,
	"happy":      2.7,
	"excited":    2.3,
	"win":        2.8,
	"wins":       2.7,
	"winner":     2.8,
	"winning":    2.4,
	"success":    2.7,
	"boom":       1.4,
	"booming":    1.9,
	"soar":       1.9,
	"soars":      1.9,
	"soaring":    1.9,
	"triumph":    2.9,
	"thrive":     2.2,
	"thriving":   2.2,
	"strong":     1.6,
	"strength":   1.7,
	"confidence": 1.8,
	"hope":       1.9,
	"hopeful":    2.0,
	"relief":     1.6,

	"hate":         -2.7,
	"awful":        -2.9,
	"horrible":     -2.8,
	"terrible":     -3.1,
	"bad":          -2.5,
	"sad":          -2.1,
	"angry":        -2.3,
	"fear":         -2.2,
	"fears":        -2.1,
	"afraid":       -2.0,
	"panic":        -3.1,
	"crisis":       -3.1,
	"disaster":     -3.1,
	"catastrophe":  -3.4,
	"lose":         -1.9,
	"loses":        -1.9,
	"losing":       -2.0,
	"fail":         -2.5,
	"fails":        -2.4,
	"failure":      -2.6,
	"failed":       -2.3,
	"collapse":     -2.7,
	"collapses":    -2.7,
	"turmoil":      -2.4,
	"worry":        -1.9,
	"worried":      -2.0,
	"warning":      -1.4,
	"warn":         -1.3,
	"warns":        -1.3,
	"slump":        -1.9,
	"slumps":       -1.9,
	"tumble":       -1.8,
	"tumbles":      -1.8,
	"doubt":        -1.5,
	"doubts":       -1.5,
	"threat":       -1.9,
	"threatens":    -1.9,
}

// boosters amplify (or dampen, when negative) the valence of the word
// that follows them.
var boosters = map[string]float64{
	"very":       0.293,
	"really":     0.293,
	"extremely":  0.293,
	"incredibly": 0.293,
	"hugely":     0.293,
	"absolutely": 0.293,
	"deeply":     0.293,
	"slightly":   -0.293,
	"somewhat":   -0.293,
	"marginally": -0.293,
	"barely":     -0.293,
}

var negations = map[string]bool{
	"not":      true,
	"no":       true,
	"never":    true,
	"none":     true,
	"neither":  true,
	"nor":      true,
	"cannot":   true,
	"can't":    true,
	"won't":    true,
	"don't":    true,
	"doesn't":  true,
	"didn't":   true,
	"isn't":    true,
	"aren't":   true,
	"wasn't":   true,
	"weren't":  true,
	"hardly":   true,
	"scarcely": true,
	"without":  true,
}

// Finance-specific keyword sets for the domain method. Phrases are matched
// before unigrams and consume both tokens.
var positiveKeywords = map[string]bool{
	"profit": true, "profits": true,
	"growth": true,
	"increase": true, "increases": true, "increased": true,
	"gain": true, "gains": true, "gained": true,
	"rise": true, "rises": true, "rose": true,
	"bull": true, "bullish": true,
	"surge": true, "surges": true, "surged": true,
	"rally": true, "rallies": true, "rallied": true,
	"outperform": true, "outperforms": true, "outperformed": true,
	"beat": true, "beats": true,
	"exceed": true, "exceeds": true, "exceeded": true,
	"strong": true, "robust": true, "solid": true,
	"record": true, "milestone": true, "breakthrough": true,
	"success": true,
	"upgrade": true, "upgraded": true,
}

var negativeKeywords = map[string]bool{
	"loss": true, "losses": true,
	"decline": true, "declines": true, "declined": true,
	"fall": true, "falls": true, "fell": true,
	"drop": true, "drops": true, "dropped": true,
	"bear": true, "bearish": true,
	"crash": true, "crashes": true, "crashed": true,
	"plunge": true, "plunges": true, "plunged": true,
	"underperform": true, "underperforms": true, "underperformed": true,
	"miss": true, "misses": true, "missed": true,
	"weak": true, "poor": true, "disappointing": true,
	"struggle": true, "struggles": true, "struggled": true,
	"concern": true, "concerns": true,
	"risk": true, "risks": true,
	"uncertainty": true,
	"downgrade": true, "downgraded": true,
	"lawsuit": true, "lawsuits": true,
	"bankruptcy": true,
	"fraud": true, "recall": true, "investigation": true,
}

type phrase struct {
	first, second string
}

var positivePhrases = []phrase{
	{"beats", "estimates"},
	{"beat", "estimates"},
	{"tops", "estimates"},
	{"record", "profit"},
	{"record", "revenue"},
	{"raises", "guidance"},
	{"raised", "guidance"},
}

var negativePhrases = []phrase{
	{"missed", "guidance"},
	{"misses", "guidance"},
	{"missed", "estimates"},
	{"misses", "estimates"},
	{"cuts", "guidance"},
	{"cut", "guidance"},
	{"lowered", "guidance"},
}
