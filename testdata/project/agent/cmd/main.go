package main

// code_snippet install-go start go
// go install example.com/agent@latest
// code_snippet install-go end

func main() {
	// code_snippet main start go
	run()
	// code_snippet main end
}

func run() {}
