// Package config holds the kong command tree.
package config

import "github.com/Alia5/padlink/internal/cmd"

type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"PADLINK_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"PADLINK_LOG_FILE"`
	RawFile string `help:"Write every byte sent over the link to this file" env:"PADLINK_LOG_RAW_FILE"`
}

type CLI struct {
	Config string `help:"Path to a JSON, YAML or TOML config file" type:"path" env:"PADLINK_CONFIG"`
	Log    Log    `embed:"" prefix:"log."`

	Run       cmd.Run           `cmd:"" default:"withargs" help:"Read the gamepad and drive the board"`
	Devices   cmd.Devices       `cmd:"" help:"List bonded devices and the one run would pick"`
	Send      cmd.Send          `cmd:"" help:"Connect once and send tokens"`
	Proxy     cmd.Proxy         `cmd:"" help:"Relay a TCP serial bridge and log the tokens"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
	Install   cmd.Install       `cmd:"" help:"Install the systemd service"`
	Uninstall cmd.Uninstall     `cmd:"" help:"Remove the systemd service"`
}
