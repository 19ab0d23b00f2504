// Package task manages background job queuing, processing, and lifecycle.
// It provides mechanisms for asynchronous execution of long-running operations
// like generating blueprint content for users, ensuring they do not block HTTP
// request handling and can recover from application restarts.
package task
