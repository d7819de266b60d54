// Package recipes holds the recipe browsing state: the meal list with its
// category and area filters (Browser) and the recipe on screen (Details).
package recipes
