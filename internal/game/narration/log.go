// Package narration defines the closed set of log events produced by the
// sugoroku engine.
//
// A Log is immutable once constructed. Consumers switch on Kind and read
// only the fields documented for that kind.
package narration

import "fmt"

// Kind tags a Log with one of the event variants.
type Kind int

const (
	KindDescription Kind = iota
	KindDialog
	KindSystem
	KindNewSection
	KindDiceRollBefore
	KindDiceRollAfter
	KindTurnEnd
)

var kindNames = [...]string{
	KindDescription:    "description",
	KindDialog:         "dialog",
	KindSystem:         "system",
	KindNewSection:     "newSection",
	KindDiceRollBefore: "diceRollBefore",
	KindDiceRollAfter:  "diceRollAfter",
	KindTurnEnd:        "turnEnd",
}

// String returns the wire name of k.
//
// Postcondition: returns "unknown" for values outside the closed set.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes k by its wire name.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("narration: unknown kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a wire name into k.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("narration: unknown kind %q", string(b))
}

// Emotion is the tone a presentation layer may use to style a line.
type Emotion string

const (
	Positive Emotion = "positive"
	Neutral  Emotion = "neutral"
	Negative Emotion = "negative"
)

// Log is a single narrated game event.
type Log struct {
	Kind    Kind    `json:"kind"`
	Text    string  `json:"text,omitempty"`
	Emotion Emotion `json:"emotion,omitempty"`
	// Speech is an alternate reading for speech synthesis (system only).
	Speech string `json:"speech,omitempty"`
	// Expression is the dice expression, e.g. "1d6" (dice kinds only).
	Expression string `json:"expression,omitempty"`
	// IsBot reports whether a bot requested the roll (diceRollBefore only).
	IsBot bool `json:"isBot,omitempty"`
	// Result is the roll total including bonus (diceRollAfter only).
	Result int `json:"result,omitempty"`
	// Details lists each face in roll order (diceRollAfter only).
	Details []int `json:"details,omitempty"`
}

// Description narrates what happens. An empty emotion means Neutral.
func Description(text string, emotion Emotion) Log {
	return Log{Kind: KindDescription, Text: text, Emotion: orNeutral(emotion)}
}

// Dialog is a line spoken by the current character.
func Dialog(text string) Log {
	return Log{Kind: KindDialog, Text: text, Emotion: Neutral}
}

// System is an out-of-fiction line such as an attribute summary.
func System(text string, emotion Emotion) Log {
	return Log{Kind: KindSystem, Text: text, Emotion: orNeutral(emotion)}
}

// SystemSpeech is a System line with a separate reading for speech output.
func SystemSpeech(text string, emotion Emotion, speech string) Log {
	l := System(text, emotion)
	l.Speech = speech
	return l
}

// NewSection separates groups of lines.
func NewSection() Log {
	return Log{Kind: KindNewSection}
}

// DiceRollBefore announces a roll. Callers pause for input when !isBot.
func DiceRollBefore(expression string, isBot bool) Log {
	return Log{Kind: KindDiceRollBefore, Expression: expression, IsBot: isBot}
}

// DiceRollAfter reports a completed roll.
//
// Postcondition: the returned Log owns a copy of details.
func DiceRollAfter(expression string, result int, details []int) Log {
	d := make([]int, len(details))
	copy(d, details)
	return Log{Kind: KindDiceRollAfter, Expression: expression, Result: result, Details: d}
}

// TurnEnd marks the boundary between two players' turns.
func TurnEnd() Log {
	return Log{Kind: KindTurnEnd}
}

func orNeutral(e Emotion) Emotion {
	if e == "" {
		return Neutral
	}
	return e
}
