// A small interactive driver: feed integers to a demo pipeline one step at
// a time, checkpoint it into a store and resume it later, possibly from a
// different process.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ergochat/readline"

	"github.com/drpcorg/mealy"
	"github.com/drpcorg/mealy/blip"
	"github.com/drpcorg/mealy/codec"
	"github.com/drpcorg/mealy/drive"
	"github.com/drpcorg/mealy/ival"
	"github.com/drpcorg/mealy/utils"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("step"),
	readline.PcItem("show"),
	readline.PcItem("save"),
	readline.PcItem("load"),
	readline.PcItem("drop"),
	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

const lineage = "repl"

// demo builds the REPL's pipeline: a running sum fanned out with a
// hold-for interval that remembers the last negative input for three
// steps.
func demo() mealy.Transducer[int64, string] {
	sum := mealy.Scan(func(a, s int64) (int64, int64) {
		return s + a, s + a
	}, 0, codec.Int64)
	negs := mealy.Func(func(a int64) blip.Blip[int64] {
		if a < 0 {
			return blip.On(a)
		}
		return blip.None[int64]()
	})
	recent := ival.HoldFor(3, codec.Int64, negs)
	return mealy.Fanout(sum, recent, func(s int64, neg ival.Interval[int64]) string {
		if v, on := neg.Val(); on {
			return fmt.Sprintf("sum=%d last_neg=%d", s, v)
		}
		return fmt.Sprintf("sum=%d", s)
	})
}

type repl struct {
	rl    *readline.Instance
	store *drive.Store
	cur   mealy.Transducer[int64, string]
}

func (r *repl) open(path string) (err error) {
	r.cur = demo()
	r.store, err = drive.Open(drive.Options{
		Path:   path,
		Logger: utils.NewDefaultLogger(slog.LevelWarn),
	})
	if err != nil {
		return
	}
	r.rl, err = readline.NewEx(&readline.Config{
		Prompt:          "◌ ",
		HistoryFile:     ".mealy_cmd_log.txt",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err == nil {
		r.rl.CaptureExitSignal()
	}
	return
}

func (r *repl) close() {
	if r.rl != nil {
		_ = r.rl.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}

func (r *repl) step(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: step <int> [<int> ...]")
	}
	for _, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return err
		}
		out, next, err := r.cur.Step(context.Background(), v)
		if err != nil {
			return err
		}
		r.cur = next
		fmt.Println(out)
	}
	return nil
}

func (r *repl) run() {
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			fmt.Println("step <int>...  feed inputs, print outputs")
			fmt.Println("show           shape and checkpoint hex")
			fmt.Println("save           checkpoint the pipeline")
			fmt.Println("load           resume from the checkpoint")
			fmt.Println("drop           delete the checkpoint")
			fmt.Println("exit")
		case "step":
			err = r.step(args)
		case "show":
			fmt.Printf("shape %s\nstate %s\n", r.cur.Shape(), hex.EncodeToString(r.cur.Encode()))
		case "save":
			err = r.store.Save(lineage, r.cur)
		case "load":
			r.cur, err = drive.Load(r.store, lineage, demo())
			if err == drive.ErrNotFound {
				fmt.Println("no checkpoint yet, starting fresh")
				err = nil
			}
		case "drop":
			err = r.store.Drop(lineage)
		case "exit", "quit":
			return
		default:
			fmt.Println("unknown command, try help")
		}
		if err != nil {
			fmt.Println("error:", err.Error())
		}
	}
}

func main() {
	path := ".mealy-repl"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	var r repl
	if err := r.open(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer r.close()
	r.run()
}
