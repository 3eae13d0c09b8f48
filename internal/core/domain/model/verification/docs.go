// Package verification models proof of handoff at the pickup and delivery
// checkpoints: the six digit codes issued with an order and the photo + GPS
// evidence a courier submits against them.
package verification
