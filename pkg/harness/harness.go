// Package harness runs an editing session read from a text stream: the
// sequence on the first line, an edit count on the second, then one
// "i j k" edit per line.
package harness

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phuslu/log"
	"github.com/pliu/splayedit/pkg/edit"
	"github.com/pliu/splayedit/pkg/splay"
)

var ErrTruncated = errors.New("unexpected end of input")

const maxLineBytes = 64 << 20

// Run applies every edit from r and writes the final sequence to w followed
// by a newline.
func Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	next := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			return "", fmt.Errorf("line %d: %w", lineNo+1, ErrTruncated)
		}
		lineNo++
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}

	seq, err := next()
	if err != nil {
		return err
	}
	tree := splay.NewString(seq)

	countLine, err := next()
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || count < 0 {
		return fmt.Errorf("line %d: %w: bad edit count %q", lineNo, edit.ErrMalformed, countLine)
	}
	log.Debug().Msgf("Applying %d edits to %d elements", count, tree.Len())

	for range count {
		line, err := next()
		if err != nil {
			return err
		}
		e, err := edit.Parse(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := e.Validate(tree.Len()); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		tree.Process(e.I, e.J, e.K)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(tree.String()); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}
