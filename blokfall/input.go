package blokfall

// Input is a discrete player command.
type Input int

const (
	InputNone Input = iota
	MoveLeft
	MoveRight
	SoftDrop
	RotateCW
	RotateCCW
	HardDrop
)

var inputNames = map[Input]string{
	InputNone: "none",
	MoveLeft:  "left",
	MoveRight: "right",
	SoftDrop:  "soft-drop",
	RotateCW:  "rotate-cw",
	RotateCCW: "rotate-ccw",
	HardDrop:  "hard-drop",
}

func (i Input) String() string {
	if s, ok := inputNames[i]; ok {
		return s
	}
	return "unknown"
}
