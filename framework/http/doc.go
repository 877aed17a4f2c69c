// Package http provides the request and response helpers behind the
// binding inspector.
//
//	req := gohttp.NewRequest(r)
//	res := gohttp.NewResponse(w)
//
//	var payload struct {
//	    Name string `json:"name"`
//	}
//	if err := req.Bind(&payload); err != nil {
//	    res.Error(http.StatusBadRequest, err.Error())
//	    return
//	}
//
//	name := req.RouteParam("name")   // chi route parameter
//	args := req.All()                // query string, first value per key
//
//	v, err := c.Get(name)
//	if err != nil {
//	    res.ContainerError(err)      // 404 / 422 / 500 by error kind
//	    return
//	}
//	res.Success(v)                   // 200 {"data": ...}
//
// Errors render as {"message": "..."}; validation failures as
// {"errors": {"field": ["msg"]}} with status 422.
package http
