package proxy

import (
	"bytes"
	"log/slog"

	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/protocol"
)

// maxLine bounds a partial line; the longest valid token is four bytes.
const maxLine = 64

// Parser splits relayed bytes into protocol lines for structured logging.
type Parser struct {
	logger *slog.Logger
	dir    log.Direction
	buf    bytes.Buffer

	Tokens  int
	Invalid int
}

func NewParser(logger *slog.Logger, dir log.Direction) *Parser {
	return &Parser{logger: logger, dir: dir}
}

// Parse consumes data and logs every complete line. Partial lines are kept
// for the next call.
func (p *Parser) Parse(data []byte) {
	p.buf.Write(data)
	for {
		i := bytes.IndexByte(p.buf.Bytes(), protocol.LineTerminator)
		if i < 0 {
			break
		}
		line := string(p.buf.Next(i + 1)[:i])
		p.line(line)
	}
	if p.buf.Len() > maxLine {
		p.logger.Warn("proxy discarding unterminated data", "dir", p.dir, "bytes", p.buf.Len())
		p.Invalid++
		p.buf.Reset()
	}
}

func (p *Parser) line(line string) {
	d, err := protocol.ParseToken(line)
	if err != nil {
		p.Invalid++
		p.logger.Warn("proxy invalid token", "dir", p.dir, "error", err)
		return
	}
	p.Tokens++
	if d.Kind == protocol.KindAxis {
		p.logger.Debug("proxy token", "dir", p.dir, "kind", d.Kind, "axis", d.Axis, "value", d.Value)
		return
	}
	p.logger.Debug("proxy token", "dir", p.dir, "kind", d.Kind, "token", d.Token)
}
