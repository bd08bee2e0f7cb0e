// Package template holds the per-language starter source shown in the
// editor before the user types anything.
package template

var starters = map[string]string{
	"python": "print(\"Hello, World!\")\n",

	"javascript": "console.log(\"Hello, World!\");\n",

	"c": `#include <stdio.h>

int main(void) {
    printf("Hello, World!\n");
    return 0;
}
`,

	"cpp": `#include <iostream>

int main() {
    std::cout << "Hello, World!" << std::endl;
    return 0;
}
`,

	"go": `package main

import "fmt"

func main() {
	fmt.Println("Hello, World!")
}
`,

	"java": `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}
`,
}

// Starter returns the starter source for a language.
func Starter(languageID string) (string, bool) {
	src, ok := starters[languageID]
	return src, ok
}
