//go:build js && wasm

// GoStego WASM - client-side hide and reveal.
// Compiled with: GOOS=js GOARCH=wasm go build -o gostego.wasm ./clients/wasm/
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/xob0t/GoStego/pkg/cover"
	"github.com/xob0t/GoStego/pkg/driver"
	"github.com/xob0t/GoStego/pkg/imageio"
)

func main() {
	fmt.Println("GoStego WASM loaded")

	// Register JS-callable functions.
	js.Global().Set("goHide", js.FuncOf(hide))
	js.Global().Set("goReveal", js.FuncOf(reveal))
	js.Global().Set("goCapacity", js.FuncOf(capacity))
	js.Global().Set("goCover", js.FuncOf(generateCover))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// goHide(base64Image, base64Message, format) - return the base64 stego image.
func hide(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: need base64Image, base64Message")
	}

	img, err := base64.StdEncoding.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf("error: invalid image base64: " + err.Error())
	}
	msg, err := base64.StdEncoding.DecodeString(args[1].String())
	if err != nil {
		return js.ValueOf("error: invalid message base64: " + err.Error())
	}

	format := imageio.PNG
	if len(args) > 2 && args[2].String() != "" {
		if format, err = imageio.ParseFormat(args[2].String()); err != nil {
			return js.ValueOf("error: " + err.Error())
		}
	}

	var buf bytes.Buffer
	if err := driver.HideStream(bytes.NewReader(img), &buf, format, msg); err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// goReveal(base64Image) - return the hidden message as base64.
func reveal(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need base64Image")
	}

	img, err := base64.StdEncoding.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}

	msg, err := driver.RevealStream(bytes.NewReader(img))
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(msg))
}

// goCapacity(base64Image) - return image info as JSON.
func capacity(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need base64Image")
	}

	img, err := base64.StdEncoding.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}

	info, err := driver.InspectStream(bytes.NewReader(img))
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	out, _ := json.Marshal(info)
	return js.ValueOf(string(out))
}

// goCover(configJSON) - render a cover and return base64 PNG.
func generateCover(this js.Value, args []js.Value) interface{} {
	var req struct {
		Width     int     `json:"width"`
		Height    int     `json:"height"`
		Color     string  `json:"color"`
		Grain     int     `json:"grain"`
		Caption   string  `json:"caption"`
		TextColor string  `json:"text_color"`
		FontSize  float64 `json:"font_size"`
	}
	if len(args) > 0 && args[0].String() != "" {
		if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
			return js.ValueOf("error: parse config: " + err.Error())
		}
	}

	// Covers past cover.MaxPixels are rejected with cover.ErrTooLarge.
	var buf bytes.Buffer
	err := cover.GenerateToWriter(&buf, imageio.PNG, cover.Config{
		Width:     req.Width,
		Height:    req.Height,
		Color:     req.Color,
		Grain:     req.Grain,
		Caption:   req.Caption,
		TextColor: req.TextColor,
		FontSize:  req.FontSize,
	})
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}
