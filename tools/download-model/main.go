// Build-time tool that downloads the multilingual-e5-small embedding model
// for the built-in hugot backend.
//
// Usage: go run ./tools/download-model [dest]
package main

import (
	"fmt"
	"os"

	"github.com/knights-analytics/hugot"
)

func main() {
	dest := "models"
	if len(os.Args) > 1 {
		dest = os.Args[1]
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Downloading model to %s...\n", dest)

	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = "onnx/model.onnx"
	modelPath, err := hugot.DownloadModel("intfloat/multilingual-e5-small", dest, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "download model: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Model downloaded to %s\n", modelPath)
}
