// Package mealdb is the HTTP client for TheMealDB recipe API.
//
// The client issues one request per call: no caching, no retries. Transport
// failures, HTTP errors and undecodable bodies surface as apperr.ErrNetwork; a
// detail lookup with no match surfaces as apperr.ErrNotFound. List lookups with
// no match return an empty slice, since "nothing starts with Q" is a valid
// answer rather than a failure.
//
// The API wraps every result in {"meals": [...]} and uses null for "no
// match". Detail records spread ingredients over strIngredient1..20 and
// strMeasure1..20; Meal flattens those into Ingredients.
package mealdb
