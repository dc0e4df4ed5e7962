package types

import "fmt"

// Log is an entry emitted by one of the LOG opcodes.
type Log struct {
	Address Address
	Topics  []Word
	Data    []byte
}

// NewLog creates a log entry, copying data.
func NewLog(addr Address, topics []Word, data []byte) *Log {
	l := &Log{
		Address: addr,
		Topics:  make([]Word, len(topics)),
		Data:    make([]byte, len(data)),
	}
	copy(l.Topics, topics)
	copy(l.Data, data)
	return l
}

func (l *Log) String() string {
	return fmt.Sprintf("Log{address: %s, topics: %v, data: %x}", l.Address, l.Topics, l.Data)
}
