package dns

// Question represents a DNS question section entry (RFC 1035 Section 4.1.2):
// the domain name being queried and the record type of interest. In practice
// queries carry exactly one question, though the wire format allows more.
//
// The class field is not modeled: it is read and discarded on decode and
// always written as ClassIN on encode.
type Question struct {
	Name  string
	QType QueryType
}

// NewQuestion creates a question for the given name and type.
func NewQuestion(name string, qtype QueryType) Question {
	return Question{Name: name, QType: qtype}
}

// Read decodes a question from the buffer's current position.
func (q *Question) Read(buffer *PacketBuffer) error {
	name, err := buffer.ReadName()
	if err != nil {
		return err
	}
	q.Name = name

	qtype, err := buffer.ReadUint16()
	if err != nil {
		return err
	}
	q.QType = QueryType(qtype)

	// class, always IN in practice
	if _, err := buffer.ReadUint16(); err != nil {
		return err
	}

	return nil
}

// Write encodes the question at the buffer's current position.
func (q *Question) Write(buffer *PacketBuffer) error {
	if err := buffer.WriteName(q.Name); err != nil {
		return err
	}
	if err := buffer.WriteUint16(uint16(q.QType)); err != nil {
		return err
	}
	return buffer.WriteUint16(uint16(ClassIN))
}
