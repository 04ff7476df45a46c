// Package http exposes the study planner over a JSON HTTP API.
//
// Routes:
//
//	GET    /availability                list weekly availability for a user
//	POST   /availability                create a weekly availability entry
//	PUT    /availability/{id}           update a weekly availability entry
//	DELETE /availability/{id}           delete a weekly availability entry
//	GET    /overrides                   list date overrides for a user
//	POST   /overrides                   create a date override
//	PUT    /overrides/{id}              update a date override
//	DELETE /overrides/{id}              delete a date override
//	GET    /contexts                    list schedule contexts for a user
//	POST   /contexts                    create a schedule context
//	PUT    /contexts/{id}               update a schedule context
//	DELETE /contexts/{id}               delete a schedule context
//	GET    /plans                       list study plans for a user
//	POST   /plans                       create a study plan
//	GET    /plans/{id}                  fetch a study plan
//	PUT    /plans/{id}                  update a study plan
//	DELETE /plans/{id}                  delete a study plan
//	PUT    /plans/{id}/status           change a plan's lifecycle status
//	PUT    /plans/{id}/recurrence       set a plan's recurrence rule
//	DELETE /plans/{id}/recurrence       clear a plan's recurrence rule
//	GET    /plans/{id}/calendar.ics     export a plan as an iCalendar feed
//	GET    /agenda                      expand due sessions across a date range
//	GET    /days/{date}                 resolve the effective day for a user
//
// Weekday fields on the wire use the remote convention (0=Sunday..6=Saturday);
// they are converted to ISO weekdays at this boundary.
package http
