package cli

import (
	"io"

	"github.com/bytedance/sonic"
)

// printJSON escribe v indentado y con salto de línea final.
func printJSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
