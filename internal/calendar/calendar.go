// Package calendar lays out month grids with Sunday-first columns.
package calendar

import (
	"strconv"
	"time"

	"dailyfocus/internal/datekey"
)

// DayNames are the column headers, Sunday first.
var DayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Cell is one slot of the grid. Day is 0 for a leading blank.
type Cell struct {
	Day int
	Key string // date-key, empty for blanks
}

// Blank reports whether the cell is a leading placeholder.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Grid is a month laid out as leading blanks followed by days 1..N.
type Grid struct {
	Year  int
	Month time.Month
	Cells []Cell
}

// Build returns the grid for the given month. Out-of-range months roll over
// the way time.Date does.
func Build(year int, month time.Month) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()

	offset := int(first.Weekday())
	days := DaysIn(year, month)

	cells := make([]Cell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{Day: d, Key: datekey.FromDate(year, month, d)})
	}

	return Grid{Year: year, Month: month, Cells: cells}
}

// Leading returns the number of blank cells before day 1.
func (g Grid) Leading() int {
	n := 0
	for _, c := range g.Cells {
		if !c.Blank() {
			break
		}
		n++
	}
	return n
}

// Weeks splits the grid into rows of seven. The last row may be short.
func (g Grid) Weeks() [][]Cell {
	var weeks [][]Cell
	for i := 0; i < len(g.Cells); i += 7 {
		end := i + 7
		if end > len(g.Cells) {
			end = len(g.Cells)
		}
		weeks = append(weeks, g.Cells[i:end])
	}
	return weeks
}

// Title returns e.g. "January 2024".
func (g Grid) Title() string {
	return g.Month.String() + " " + strconv.Itoa(g.Year)
}

// DaysIn returns the number of days in a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Navigate moves delta months from year/month.
func Navigate(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Contains reports whether key falls inside the grid's month.
func (g Grid) Contains(key string) bool {
	t, err := datekey.Parse(key)
	if err != nil {
		return false
	}
	return t.Year() == g.Year && t.Month() == g.Month
}
