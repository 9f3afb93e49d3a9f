package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/keyspace-io/jsondoc/command"
	"github.com/keyspace-io/jsondoc/config"
	"github.com/keyspace-io/jsondoc/format"
)

// NewRootCmd creates the jsondoc shell command.
func NewRootCmd() *cobra.Command {
	var configPath string
	var replyFormat string

	root := &cobra.Command{
		Use:           "jsondoc",
		Short:         "jsondoc - JSON document engine shell",
		Long:          "An interactive shell over the JSON.* command surface, backed by an in-memory keyspace.\nThe builtins SAVE <file> and LOAD <file> snapshot the keyspace; QUIT exits.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			ks := command.NewMemoryKeyspace()
			engine := command.NewEngine(ks, command.LogNotifier{}, cfg)
			if replyFormat != "" {
				f, err := command.ParseReplyFormat(strings.ToUpper(replyFormat))
				if err != nil {
					return err
				}
				engine.SetReplyFormat(f)
			}
			return runShell(cmd, engine, ks)
		},
	}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.Flags().StringVar(&replyFormat, "reply-format", "", "multi-path reply shaping: STRING, STRINGS, EXPAND1, EXPAND")
	return root
}

func runShell(cmd *cobra.Command, engine *command.Engine, ks *command.MemoryKeyspace) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	in.Buffer(make([]byte, 0, 1<<20), 1<<20)
	out := cmd.OutOrStdout()

	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		args, err := tokenize(line)
		if err != nil {
			fmt.Fprintf(out, "(error) %v\n", err)
			continue
		}
		switch strings.ToUpper(args[0]) {
		case "QUIT", "EXIT":
			return nil
		case "SAVE":
			if err := snapshotTo(ks, args); err != nil {
				fmt.Fprintf(out, "(error) %v\n", err)
			} else {
				fmt.Fprintln(out, "OK")
			}
			continue
		case "LOAD":
			if err := restoreFrom(ks, args); err != nil {
				fmt.Fprintf(out, "(error) %v\n", err)
			} else {
				fmt.Fprintln(out, "OK")
			}
			continue
		}
		reply, err := engine.Execute(args)
		if err != nil {
			fmt.Fprintf(out, "(error) %v\n", err)
			continue
		}
		fmt.Fprintln(out, command.Render(reply))
	}
	return in.Err()
}

func snapshotTo(ks *command.MemoryKeyspace, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: SAVE <file>")
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	s := &format.Stream{W: f}
	if err := s.WriteUnsigned(format.CurrentSnapshotVersion); err != nil {
		return err
	}
	return ks.Snapshot(s)
}

func restoreFrom(ks *command.MemoryKeyspace, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: LOAD <file>")
	}
	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	s := &format.Stream{R: f}
	version, err := s.ReadUnsigned()
	if err != nil {
		return err
	}
	return ks.Restore(s, int(version))
}

// tokenize splits a shell line into arguments, honouring single and
// double quotes with backslash escapes inside double quotes.
func tokenize(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inToken := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		case c == '\'' || c == '"':
			inToken = true
			quote := c
			i++
			for ; i < len(line); i++ {
				if line[i] == '\\' && quote == '"' && i+1 < len(line) {
					i++
					switch line[i] {
					case 'n':
						cur.WriteByte('\n')
					case 't':
						cur.WriteByte('\t')
					default:
						cur.WriteByte(line[i])
					}
					continue
				}
				if line[i] == quote {
					break
				}
				cur.WriteByte(line[i])
			}
			if i >= len(line) {
				return nil, fmt.Errorf("unterminated quote")
			}
		default:
			inToken = true
			cur.WriteByte(c)
		}
	}
	if inToken {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}
