// Package card turns raw form input into the values printed on an access card.
//
// Everything here is pure: the same Input, profile and issue date always
// derive the same View.
package card
