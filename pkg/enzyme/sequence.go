package enzyme

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrSequence is returned for sequences that are empty or contain
// characters other than residue letters.
var ErrSequence = errors.New("invalid sequence")

// Record is one entry of a FASTA file.
type Record struct {
	// ID is the first word of the header line.
	ID string `json:"id"`
	// Description is the rest of the header line.
	Description string `json:"description,omitempty"`
	Sequence    string `json:"sequence"`
}

// ReadFASTA reads FASTA records from r. Input without a header line is
// read as a single record with an empty ID. Sequences are normalized with
// [NormalizeSequence], stripped of a trailing '*' and checked with
// [CheckSequence].
func ReadFASTA(r io.Reader) ([]Record, error) {
	var (
		records []Record
		cur     *Record
		seq     strings.Builder
		line    int
	)

	flush := func() error {
		if cur == nil {
			return nil
		}

		cur.Sequence = strings.TrimSuffix(NormalizeSequence(seq.String()), "*")
		seq.Reset()

		err := CheckSequence(cur.Sequence)
		if err != nil {
			if cur.ID != "" {
				return fmt.Errorf("record %q: %w", cur.ID, err)
			}

			return err
		}

		records = append(records, *cur)

		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		line++

		text := strings.TrimSpace(sc.Text())

		switch {
		case text == "" || strings.HasPrefix(text, ";"):
			continue

		case strings.HasPrefix(text, ">"):
			err := flush()
			if err != nil {
				return nil, err
			}

			id, desc, _ := strings.Cut(strings.TrimSpace(text[1:]), " ")
			cur = &Record{ID: id, Description: strings.TrimSpace(desc)}

		default:
			if cur == nil {
				cur = &Record{}
			}

			seq.WriteString(text)
		}
	}

	err := sc.Err()
	if err != nil {
		return nil, fmt.Errorf("read line %d: %w", line+1, err)
	}

	err = flush()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no sequence found", ErrSequence)
	}

	return records, nil
}

// ParseSequence returns the normalized sequence held by s, which is either
// a bare sequence or a FASTA document. Only the first FASTA record is used.
func ParseSequence(s string) (string, error) {
	records, err := ReadFASTA(strings.NewReader(s))
	if err != nil {
		return "", err
	}

	return records[0].Sequence, nil
}

// CheckSequence returns an error wrapping [ErrSequence] unless seq is a
// non-empty run of upper-case letters. A trailing '*' stop marker is
// allowed.
func CheckSequence(seq string) error {
	body := strings.TrimSuffix(seq, "*")
	if body == "" {
		return fmt.Errorf("%w: empty", ErrSequence)
	}

	for i := range len(body) {
		if body[i] < 'A' || body[i] > 'Z' {
			return fmt.Errorf("%w: unexpected %q at position %d", ErrSequence, body[i], i+1)
		}
	}

	return nil
}
