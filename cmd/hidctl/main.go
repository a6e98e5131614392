// Command hidctl shows and controls the HID Device profile connections of
// the local Bluetooth adapter.
package main

func main() {
	Execute()
}
