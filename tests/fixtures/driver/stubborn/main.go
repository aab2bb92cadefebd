// stubborn listens, ignores SIGTERM and starts a child in its process group.
// The child's PID is written to $FIXTURE_PIDFILE when set.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

func main() {
	port := flag.Int("port", 4444, "port to listen on")
	child := flag.Bool("child", false, "run as the spawned child")
	flag.Parse()

	signal.Ignore(syscall.SIGTERM, syscall.SIGINT)

	if *child {
		for {
			time.Sleep(time.Second)
		}
	}

	c := exec.Command(os.Args[0], "--child")
	if err := c.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if pidfile := os.Getenv("FIXTURE_PIDFILE"); pidfile != "" {
		_ = os.WriteFile(pidfile, []byte(strconv.Itoa(c.Process.Pid)), 0o644)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", *port))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}
}
