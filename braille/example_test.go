package braille_test

import (
	"fmt"
	"os"

	"github.com/dgnsrekt/brl/braille"
)

func ExampleEncode() {
	fmt.Println(braille.Encode("Hi 5!"))
	// Output: ⠠⠓⠊⠀⠼⠑⠀⠖
}

func ExampleNewWriter() {
	w := braille.NewWriter(os.Stdout)
	fmt.Fprint(w, "ab")
	fmt.Fprint(w, "12")
	_ = w.Close()
	fmt.Println()
	// Output: ⠁⠃⠼⠁⠃⠀
}
