// Package printing describes the slips the POS prints: kitchen tickets for the
// kitchen printer and bills or purchase orders for customers and vendors.
package printing
