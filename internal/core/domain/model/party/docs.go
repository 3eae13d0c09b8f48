// Package party holds the engine's view of the people taking part in an order.
//
// The user catalog itself lives outside the engine. Member is the projection
// the engine needs: a role, courier availability, the strike counter and ban
// flag that dispute penalties write to, and the running rating average that
// counterparty ratings update. Rating records one party's score for another
// after an order completes.
package party
