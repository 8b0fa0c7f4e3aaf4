package service

import "fmt"

const unitTemplate = `[Unit]
Description=NVIDIA Overclocking Service
After=network.target

[Service]
ExecStart=%s
User=root
Restart=on-failure

[Install]
WantedBy=multi-user.target
`

// RenderUnit returns the unit file for cmd.
func RenderUnit(cmd Command) string {
	return RenderUnitLine(cmd.String())
}

// RenderUnitLine returns the unit file for an already rendered command line.
func RenderUnitLine(execStart string) string {
	return fmt.Sprintf(unitTemplate, execStart)
}
