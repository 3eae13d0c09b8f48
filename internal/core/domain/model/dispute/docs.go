// Package dispute models a contested order: who raised it and why, the admin
// review, and the resolution that decides where the escrowed money goes and
// whether someone is penalised.
package dispute
