package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/prefork"
	"github.com/dmitrymomot/prefork/core/pidfile"
)

var errNotRunning = errors.New("server is not running")

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

type ui struct {
	out io.Writer
}

func newUI(out io.Writer) *ui {
	return &ui{out: out}
}

func (u *ui) Header(title string) {
	fmt.Fprintln(u.out, headerStyle.Render(title))
}

func (u *ui) Success(msg string) {
	fmt.Fprintln(u.out, okStyle.Render("✓ "+msg))
}

func (u *ui) Warning(msg string) {
	fmt.Fprintln(u.out, warnStyle.Render("⚠ "+msg))
}

func (u *ui) KeyValue(key, value string) {
	fmt.Fprintf(u.out, "  %s: %s\n", subtleStyle.Render(key), value)
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the server is running",
		Long: `Reads the liveness marker (server.pid_file) named by the config file.
Exits with a non-zero status when the server is not running.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := prefork.LoadConfig(path)
			if err != nil {
				return err
			}
			return printStatus(newUI(cmd.OutOrStdout()), cfg)
		},
	}
}

func printStatus(u *ui, cfg prefork.Config) error {
	marker := pidfile.New(cfg.Server.PidFile)

	u.Header(cfg.Server.Name)
	u.KeyValue("address", "http://"+cfg.Addr())
	u.KeyValue("pid file", marker.Path())

	if !marker.IsRunning() {
		u.Warning("not running")
		return errNotRunning
	}

	pid, err := marker.PID()
	if err != nil {
		u.Warning("pid file is unreadable")
		return err
	}
	u.KeyValue("pid", strconv.Itoa(pid))
	u.Success("running")
	return nil
}
