package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// IO - построчный терминал консоли
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadLine(prompt string) (string, error)
}

// Stdio читает строки из in и пишет в out. Приглашение выводится только
// для интерактивного терминала.
type Stdio struct {
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
}

var _ IO = (*Stdio)(nil)

// NewStdio создает IO консоли поверх stdin и stdout процесса
func NewStdio() *Stdio {
	return NewIO(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

// NewIO создает IO консоли поверх произвольных потоков
func NewIO(in io.Reader, out io.Writer, interactive bool) *Stdio {
	return &Stdio{
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

func (s *Stdio) Println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// ReadLine возвращает следующую строку без перевода строки.
// Последняя строка возвращается и без завершающего перевода строки.
func (s *Stdio) ReadLine(prompt string) (string, error) {
	if s.interactive {
		s.Printf("%s", prompt)
	}

	line, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
