// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leave

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Request, int, error)
	Get(context context.Context, id int) (*Request, error)
	Create(context context.Context, r *Request) error

	// Decide moves a request out of pending. It reports whether the row was
	// actually transitioned, so a lost race or an already-decided request can
	// be told apart from success without a second read.
	Decide(context context.Context, id int, status Status, deciderID int, note *string) (bool, error)
}
