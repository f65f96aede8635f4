package slc_test

import (
	"bytes"
	"fmt"
	"log"
	"slc"
)

func Example() {
	replay := slc.New(240.0, slc.NoMeta{})
	if err := replay.AddInput(200, slc.Player{Button: 1, Hold: true}); err != nil {
		log.Fatal(err)
	}
	if err := replay.AddInput(260, slc.Player{Button: 1}); err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := replay.WriteV3(&buf); err != nil {
		log.Fatal(err)
	}

	decoded, err := slc.Read(&buf, slc.NoMeta{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%v tps, %d inputs\n", decoded.TPS, decoded.Len())
	// Output: 240 tps, 2 inputs
}
