// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package note

import "context"

type Repository interface {
	ListByEmployee(context context.Context, employeeID, limit, offset int) ([]*Note, int, error)
	Get(context context.Context, id int) (*Note, error)
	Create(context context.Context, n *Note) error
	Update(context context.Context, n *Note) error
	Delete(context context.Context, id int) error
}
