package app

import (
	"errors"
	"flag"
	"fmt"
)

const (
	CommandInit   = "init"
	CommandStatus = "status"
)

type Command string

var validCommands = map[Command]struct{}{
	CommandInit:   {},
	CommandStatus: {},
}

type Config struct {
	DBPath  string
	Command Command
}

func NewConfigFromCLI() (*Config, error) {
	c := &Config{}

	flag.StringVar(&c.DBPath, "db", "", "Path to the cluster database file")
	flag.Parse()

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if flag.NArg() != 1 {
		err = errors.New("exactly one command is required: init or status")
	} else if _, ok := validCommands[Command(flag.Arg(0))]; !ok {
		err = fmt.Errorf("unknown command: %s", flag.Arg(0))
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Command = Command(flag.Arg(0))
	return c, nil
}
