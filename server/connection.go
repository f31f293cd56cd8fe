package server

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"ridgedb/config"
	"ridgedb/db"
)

// Connection handles the lifecycle of a single client connection: read
// a line, execute it, write the formatted result plus a status line,
// repeat until the client disconnects or asks to exit.
type Connection struct {
	conn     net.Conn
	scanner  *bufio.Scanner
	cfg      *config.Config
	database *db.Database
}

func newConnection(conn net.Conn, cfg *config.Config, database *db.Database) *Connection {
	return &Connection{
		conn:     conn,
		scanner:  bufio.NewScanner(conn),
		cfg:      cfg,
		database: database,
	}
}

// Handle runs the query loop and closes the connection on return.
func (c *Connection) Handle() {
	defer c.conn.Close()

	log.Printf("connection %s: opened", c.conn.RemoteAddr())
	c.queryLoop()
	log.Printf("connection %s: closed", c.conn.RemoteAddr())
}

// queryLoop reads one statement per line until the client disconnects,
// sends exit/quit, or a write fails.
func (c *Connection) queryLoop() {
	for c.scanner.Scan() {
		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			c.writeLine("Goodbye!")
			return
		}

		if err := c.handleStatement(line); err != nil {
			log.Printf("connection %s: write: %v", c.conn.RemoteAddr(), err)
			return
		}
	}
	if err := c.scanner.Err(); err != nil && err != io.EOF {
		log.Printf("connection %s: read: %v", c.conn.RemoteAddr(), err)
	}
}

// handleStatement executes one SQL statement and writes the response:
// the formatted result (if any) followed by the status line the client
// uses to detect the end of the response.
func (c *Connection) handleStatement(stmt string) error {
	start := time.Now()
	result, err := c.database.ExecuteSQL(stmt)
	elapsed := time.Since(start)

	if err != nil {
		if c.cfg.LogLevel >= 1 {
			log.Printf("[SQL] ERROR  %s — %s", stmt, err.Error())
		}
		return c.writeLine(fmt.Sprintf("Error: %s", err.Error()))
	}

	if c.cfg.LogLevel >= 1 {
		log.Printf("[SQL] OK     %s — %s", stmt, elapsed)
	}

	if result != "" {
		if err := c.writeLine(result); err != nil {
			return err
		}
	}
	return c.writeLine(fmt.Sprintf("Query OK (%s)", elapsed))
}

func (c *Connection) writeLine(s string) error {
	_, err := fmt.Fprintln(c.conn, s)
	return err
}
