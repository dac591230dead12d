// Package console - построчный интерфейс редактирования общего документа.
// Обычная строка заменяет документ, строки с ':' являются командами.
package console

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/iudanet/peernote/internal/document"
	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/peer"
	"github.com/iudanet/peernote/internal/replication"
)

const prompt = "> "

// Editor - документ, который редактирует консоль
type Editor interface {
	document.Adapter
	Edit(text string)
	Append(line string)
}

// PeerLister перечисляет IP подключенных пиров
type PeerLister interface {
	DistinctIPs() []string
}

// RecoverFunc запускает восстановление из бэкапа
type RecoverFunc func(ctx context.Context) (models.Snapshot, error)

// Console читает ввод пользователя и применяет его к документу
type Console struct {
	io         IO
	doc        Editor
	peers      PeerLister
	nickname   func(ip string) string
	recover    RecoverFunc
	exportPath string
}

// New создает консоль
func New(cio IO, doc Editor, peers PeerLister, nickname func(string) string, recover RecoverFunc) *Console {
	if nickname == nil {
		nickname = func(ip string) string { return ip }
	}
	return &Console{
		io:         cio,
		doc:        doc,
		peers:      peers,
		nickname:   nickname,
		recover:    recover,
		exportPath: document.DefaultExportPath,
	}
}

// Run обрабатывает ввод до EOF, :quit или отмены ctx
func (c *Console) Run(ctx context.Context) error {
	c.io.Println("Type a line to replace the note, :help for commands.")

	for ctx.Err() == nil {
		line, err := c.io.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if quit := c.handle(ctx, line); quit {
			return nil
		}
	}
	return ctx.Err()
}

// handle выполняет одну строку ввода, возвращает true на :quit
func (c *Console) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		c.doc.Edit(line)
		return false
	}
	// "::text" вводит строку, начинающуюся с двоеточия
	if strings.HasPrefix(line, "::") {
		c.doc.Edit(line[1:])
		return false
	}

	cmd, arg, _ := strings.Cut(line[1:], " ")
	switch cmd {
	case "quit", "q":
		return true
	case "show":
		c.io.Println(c.doc.Text())
	case "append":
		c.doc.Append(arg)
	case "peers":
		c.showPeers()
	case "recover":
		c.runRecover(ctx)
	case "save":
		c.save(strings.TrimSpace(arg))
	default:
		c.help()
	}
	return false
}

func (c *Console) showPeers() {
	ips := c.peers.DistinctIPs()
	c.io.Printf("Peers: %d (%s)\n", len(ips), peer.Health(len(ips)))
	for _, ip := range ips {
		c.io.Printf("%s - %s\n", ip, c.nickname(ip))
	}
}

func (c *Console) runRecover(ctx context.Context) {
	_, err := c.recover(ctx)
	switch {
	case err == nil:
		c.io.Println("Recovered document from backup.")
	case errors.Is(err, replication.ErrNoBackup):
		c.io.Println("No backup found.")
	default:
		c.io.Printf("Recovery failed: %v\n", err)
	}
}

func (c *Console) save(path string) {
	if path == "" {
		path = c.exportPath
	}
	if err := document.Export(c.doc, path); err != nil {
		c.io.Println("Failed to save note.")
		return
	}
	c.io.Printf("Note saved to %s\n", path)
}

func (c *Console) help() {
	c.io.Println("Commands:")
	c.io.Println("  :show            print the note")
	c.io.Println("  :append <text>   add a line to the note")
	c.io.Println("  :peers           list connected peers")
	c.io.Println("  :recover         restore the newest backup from peers")
	c.io.Println("  :save [path]     write the note to a file")
	c.io.Println("  :quit            exit")
	c.io.Println("  ::text           set the note to a line starting with ':'")
}
