package vm

type (
	// Tape is sparse cell storage. Cells never written read as zero.
	Tape struct {
		cells map[uint]byte
	}
)

func NewTape() *Tape {
	return &Tape{
		cells: make(map[uint]byte),
	}
}

func (t *Tape) Get(addr uint) byte {
	return t.cells[addr]
}

func (t *Tape) Set(addr uint, v byte) {
	t.cells[addr] = v
}

// Len is the number of cells ever written.
func (t *Tape) Len() int {
	return len(t.cells)
}

func (t *Tape) Reset() {
	for k := range t.cells {
		delete(t.cells, k)
	}
}
