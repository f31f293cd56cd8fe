// Command ridgedbctl is an interactive line-editor client for ridgedb:
// it connects over TCP, sends one typed line per SQL statement, and
// prints whatever the server sends back until exit/quit.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ridgedb/version"
)

func main() {
	var host string
	var port int

	root := &cobra.Command{
		Use:     "ridgedbctl",
		Short:   "interactive client for ridgedb",
		Version: version.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(host, port)
		},
	}
	root.Flags().StringVar(&host, "host", "127.0.0.1", "server host")
	root.Flags().IntVar(&port, "port", 3306, "server port")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	serverReader := bufio.NewScanner(conn)
	stdin := bufio.NewScanner(os.Stdin)

	fmt.Printf("connected to ridgedb at %s\n", addr)
	for {
		fmt.Print("ridgedb> ")
		if !stdin.Scan() {
			return nil
		}
		line := strings.TrimSpace(stdin.Text())
		if line == "" {
			continue
		}

		if _, err := fmt.Fprintln(conn, line); err != nil {
			return fmt.Errorf("send statement: %w", err)
		}

		quitting := isQuit(line)
		for serverReader.Scan() {
			resp := serverReader.Text()
			fmt.Println(resp)
			if strings.HasPrefix(resp, "Query OK") || strings.HasPrefix(resp, "Error:") || resp == "Goodbye!" {
				break
			}
		}
		if err := serverReader.Err(); err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if quitting {
			return nil
		}
	}
}

func isQuit(line string) bool {
	lower := strings.ToLower(line)
	return lower == "exit" || lower == "quit"
}
