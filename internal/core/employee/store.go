// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import "context"

type Repository interface {
	List(context context.Context, f Filter, sort string, limit, offset int) ([]*Employee, int, error)
	Get(context context.Context, id int) (*Employee, error)
	FindByUserID(context context.Context, userID int) (*Employee, error)
	Create(context context.Context, e *Employee) error
	Update(context context.Context, e *Employee) error
	Delete(context context.Context, id int) error

	// ClaimByEmail links an unowned record with a matching email to the user.
	ClaimByEmail(context context.Context, userID int, email string) (*Employee, error)

	// Provision inserts an owned record, or returns the existing one when a
	// concurrent provision won the unique owner-link race.
	Provision(context context.Context, e *Employee) error
}
