package argos_test

import (
	"fmt"

	"github.com/teras/argos"
)

func Example() {
	p := argos.NewParser(nil)
	verbose := p.Bool("verbose").Switch("--verbose", "-v").Handle()
	name := p.Str("name").Switch("--name").Required().Handle()

	bound, err := p.Parse([]string{"--name", "river", "-v"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	n, _ := argos.RequiredValue[string](bound, name)
	v, _ := argos.Value[bool](bound, verbose)
	fmt.Println(n, v)
	// Output: river true
}

func Example_domains() {
	p := argos.NewParser(nil)
	p.Domain("serve").Label("run the server")
	p.Domain("migrate").Label("apply database migrations")
	port := p.Int("port").Switch("--port").Default(8080).Handle()

	bound, err := p.Parse([]string{"serve", "--port", "9090"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(bound.ActiveDomain())
	v, _ := argos.Value[int](bound, port)
	fmt.Println(v)
	// Output:
	// serve
	// 9090
}
