// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package accesslog

import "context"

type Repository interface {
	Append(context context.Context, e *Entry) error
	List(context context.Context, f Filter, limit, offset int) ([]*Entry, int, error)
}
