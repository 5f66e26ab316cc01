package ui

import "time"

// Quote is a motivational line shown in the title bar.
type Quote struct {
	Text   string
	Author string
}

var quotes = []Quote{
	{"The way to get started is to quit talking and begin doing.", "Walt Disney"},
	{"Innovation distinguishes between a leader and a follower.", "Steve Jobs"},
	{"Life is what happens to you while you're busy making other plans.", "John Lennon"},
	{"The future belongs to those who believe in the beauty of their dreams.", "Eleanor Roosevelt"},
	{"Don't watch the clock; do what it does. Keep going.", "Sam Levenson"},
	{"Whether you think you can or you think you can't, you're right.", "Henry Ford"},
	{"The only impossible journey is the one you never begin.", "Tony Robbins"},
	{"Success is not final, failure is not fatal: it is the courage to continue that counts.", "Winston Churchill"},
	{"Believe you can and you're halfway there.", "Theodore Roosevelt"},
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"Productivity is never an accident. It is always the result of a commitment to excellence.", "Paul J. Meyer"},
	{"Focus on being productive instead of busy.", "Tim Ferriss"},
	{"It is not enough to be busy... The question is: what are we busy about?", "Henry David Thoreau"},
	{"Time management is life management.", "Robin Sharma"},
	{"You don't have to be great to get started, but you have to get started to be great.", "Les Brown"},
}

// QuoteFor returns the quote of the day containing t.
func QuoteFor(t time.Time) Quote {
	return quotes[t.YearDay()%len(quotes)]
}
