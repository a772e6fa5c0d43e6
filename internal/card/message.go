package card

import (
	"fmt"
	"strings"
)

// CelebrationEmoji bounce under the message once it is fully typed.
var CelebrationEmoji = []rune{'🎉', '🎂', '🎈', '🎁', '❤'}

// Message builds the card's greeting. A non-empty custom message is used
// as is; otherwise the default greeting is addressed to recipient and
// signed by sender.
func Message(recipient, sender, custom string) string {
	if strings.TrimSpace(custom) != "" {
		return strings.TrimSpace(custom)
	}

	if recipient == "" {
		recipient = "you"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Happy Birthday, %s!\n\n", recipient)
	b.WriteString("Thank you for all the love you consistently show me. ")
	b.WriteString("You've been incredible, something I'm truly grateful for.\n\n")
	b.WriteString("Here's to celebrating another year of your life and all the memories we've created together.")
	if sender != "" {
		fmt.Fprintf(&b, "\n\nLove you,\n%s ❤", sender)
	}
	return b.String()
}

// Greeting is the one-line text scrolled along the bottom of the card.
func Greeting(recipient string, age int) string {
	if recipient == "" {
		return fmt.Sprintf("Happy %s birthday!", Ordinal(age))
	}
	return fmt.Sprintf("Happy %s birthday, %s!", Ordinal(age), recipient)
}

// Ordinal formats n as 1st, 2nd, 3rd, 4th, 11th, 21st...
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
