package clinic

import "fmt"

// Backend routes, relative to the configured base URL. Self-profile routes
// (patients/doctors without an id) resolve the subject from the demo header.
// Admin mutation paths for exams differ from the public read paths.
const (
	routeHealth       = "/health"
	routePatients     = "/patients"
	routeDoctors      = "/doctors"
	routeExams        = "/exams"
	routeAppointments = "/appointments"
	routeAdminExams   = "/admin/exams"
)

func routePatient(id string) string      { return fmt.Sprintf("%s/%s", routePatients, id) }
func routeDoctor(id string) string       { return fmt.Sprintf("%s/%s", routeDoctors, id) }
func routeExam(id string) string         { return fmt.Sprintf("%s/%s", routeExams, id) }
func routeAppointment(id string) string  { return fmt.Sprintf("%s/%s", routeAppointments, id) }
func routeAdminExam(id string) string    { return fmt.Sprintf("%s/%s", routeAdminExams, id) }
func routeDoctorExams(id string) string  { return fmt.Sprintf("%s/%s/exams", routeDoctors, id) }
func routePatientAppts(id string) string { return fmt.Sprintf("%s/%s/appointments", routePatients, id) }
func routeDoctorAppts(id string) string  { return fmt.Sprintf("%s/%s/appointments", routeDoctors, id) }

func routeExamDoctor(examID, doctorID string) string {
	return fmt.Sprintf("%s/%s/doctors/%s", routeAdminExams, examID, doctorID)
}
