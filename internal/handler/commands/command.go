package commands

import "strings"

// Command is the closed set of recognized keywords. Anything else is either
// a bare token lookup or an unknown command.
type Command int

const (
	CmdUnknown Command = iota
	CmdScan
	CmdQuant
	CmdPing
	CmdHelp
	CmdAudit
	CmdHolders
	CmdTrades
)

func (c Command) String() string {
	switch c {
	case CmdScan:
		return "scan"
	case CmdQuant:
		return "quant"
	case CmdPing:
		return "ping"
	case CmdHelp:
		return "help"
	case CmdAudit:
		return "audit"
	case CmdHolders:
		return "holders"
	case CmdTrades:
		return "trades"
	default:
		return "unknown"
	}
}

// ParseCommand maps a keyword to its Command. Case-insensitive.
func ParseCommand(word string) Command {
	switch strings.ToLower(word) {
	case "scan":
		return CmdScan
	case "quant":
		return CmdQuant
	case "ping":
		return CmdPing
	case "help":
		return CmdHelp
	case "audit":
		return CmdAudit
	case "holders":
		return CmdHolders
	case "trades":
		return CmdTrades
	default:
		return CmdUnknown
	}
}

// Request is one incoming command invocation, already stripped of the
// prefix by the gateway adapter.
type Request struct {
	Keyword    string // first word after the prefix
	Args       string // remainder of the message
	Attachment []byte // first attachment, if any
	Author     string
	LatencyMS  int64 // gateway heartbeat latency, for ping
}
