// Package evdev reads gamepads through the Linux event interface.
package evdev

// Config selects the device and describes its axis ranges.
type Config struct {
	Device      string `help:"evdev node such as /dev/input/event5; empty picks the first joystick udev reports" env:"PADLINK_INPUT_DEVICE"`
	Grab        bool   `help:"Grab the device so other programs do not see its events" env:"PADLINK_INPUT_GRAB"`
	TriggerAxes string `help:"Axis pair carrying the triggers" enum:"z,gas" default:"z" env:"PADLINK_INPUT_TRIGGER_AXES"`
	TriggerMin  int32  `help:"Raw trigger value at rest" default:"0" env:"PADLINK_INPUT_TRIGGER_MIN"`
	TriggerMax  int32  `help:"Raw trigger value fully pressed" default:"255" env:"PADLINK_INPUT_TRIGGER_MAX"`
	StickMin    int32  `help:"Raw left stick X value fully left" default:"-32768" env:"PADLINK_INPUT_STICK_MIN"`
	StickMax    int32  `help:"Raw left stick X value fully right" default:"32767" env:"PADLINK_INPUT_STICK_MAX"`
}
