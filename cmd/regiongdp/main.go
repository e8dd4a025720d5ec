// Command regiongdp downloads the Wikipedia GDP table and charts it by region.
//
// Usage:
//
//	regiongdp render --source imf -o chart.svg
//	regiongdp table --source un --format markdown
//	regiongdp serve --port 8501
package main

func main() {
	Execute()
}
