package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var stdin *bufio.Reader

func prompt(cmd *cobra.Command, label string) string {
	if stdin == nil {
		stdin = bufio.NewReader(cmd.InOrStdin())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

func confirm(cmd *cobra.Command, question string) bool {
	answer := strings.ToLower(prompt(cmd, question+" [y/N]"))
	return answer == "y" || answer == "yes"
}
