package domain

import "fmt"

// TicketState определяет колонку доски, в которой находится тикет.
type TicketState int

const (
	StateNew TicketState = iota
	StateInDevelopment
	StateCodeReview
	StateReadyForTest
	StateInTest
	StateDone
)

var ticketStateNames = [...]string{
	StateNew:           "new",
	StateInDevelopment: "inDevelopment",
	StateCodeReview:    "codeReview",
	StateReadyForTest:  "readyForTest",
	StateInTest:        "inTest",
	StateDone:          "done",
}

// TicketStates возвращает фиксированный упорядоченный набор состояний.
// Каждый вызов отдаёт новый срез, поэтому вызывающий может его менять.
func TicketStates() []TicketState {
	return []TicketState{
		StateNew,
		StateInDevelopment,
		StateCodeReview,
		StateReadyForTest,
		StateInTest,
		StateDone,
	}
}

// Valid сообщает, входит ли значение в известный набор.
func (s TicketState) Valid() bool {
	return s >= StateNew && s <= StateDone
}

func (s TicketState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("TicketState(%d)", int(s))
	}
	return ticketStateNames[s]
}

// MarshalText используется JSON-кодеками, в том числе для ключей map.
func (s TicketState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown ticket state %d", int(s))
	}
	return []byte(ticketStateNames[s]), nil
}

// UnmarshalText разбирает текстовое имя состояния.
func (s *TicketState) UnmarshalText(text []byte) error {
	state, err := ParseTicketState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// ParseTicketState возвращает состояние по его имени.
func ParseTicketState(name string) (TicketState, error) {
	for i, n := range ticketStateNames {
		if n == name {
			return TicketState(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ticket state %q", name)
}
